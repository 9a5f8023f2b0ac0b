package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestLogger(log))
	router.GET("/teams/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name      string
		path      string
		requestID string
		route     string
		level     logrus.Level
	}{
		{"client error logs route template", "/teams/abc", "", "/teams/:id", logrus.WarnLevel},
		{"success keeps caller request id", "/ok", "req-123", "/ok", logrus.InfoLevel},
		{"unmatched route", "/nowhere", "", "unmatched", logrus.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "http", entry.Data["component"])
			assert.Equal(t, tt.route, entry.Data["route"])

			id := w.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, entry.Data["request_id"])
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, id)
			}
		})
	}

	hook.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teams/abc", nil))
	assert.Equal(t, "abc", hook.LastEntry().Data["param_id"])
}
