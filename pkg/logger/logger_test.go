package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		logFormat     string
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{
			name:          "default configuration",
			expectedLevel: logrus.InfoLevel,
		},
		{
			name:          "debug level with json format",
			logLevel:      "debug",
			logFormat:     "json",
			expectedLevel: logrus.DebugLevel,
			expectJSON:    true,
		},
		{
			name:          "invalid level defaults to info",
			logLevel:      "invalid",
			expectedLevel: logrus.InfoLevel,
		},
		{
			name:          "case insensitive level",
			logLevel:      "WARN",
			logFormat:     "JSON",
			expectedLevel: logrus.WarnLevel,
			expectJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := InitLogger(tt.logLevel, tt.logFormat)
			require.NotNil(t, log)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())

			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	log := InitLogger("info", "json")
	var buf bytes.Buffer
	log.SetOutput(&buf)

	eventID := uuid.New()
	ForEvent(log, "reconciler", eventID).Info("reconciled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reconciler", entry["component"])
	assert.Equal(t, eventID.String(), entry["event_id"])
	assert.Equal(t, "reconciled", entry["msg"])

	buf.Reset()
	teamID := uuid.New()
	ForTeam(log, "used_players", teamID).Warn("sweep failed")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, teamID.String(), entry["team_id"])
	assert.Equal(t, "warning", entry["level"])
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() { ForComponent(log, "test").Error("dropped") })
}
