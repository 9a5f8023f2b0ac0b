package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
// ("json" or "text"). An unknown level falls back to info.
func InitLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", level).Warn("Invalid LOG_LEVEL, using INFO")
		return log
	}
	log.SetLevel(parsed)

	return log
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ForComponent(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}

// ForEvent tags refresh logs with the event being processed.
func ForEvent(log *logrus.Logger, component string, eventID fmt.Stringer) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"component": component,
		"event_id":  eventID.String(),
	})
}

func ForTeam(log *logrus.Logger, component string, teamID fmt.Stringer) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"component": component,
		"team_id":   teamID.String(),
	})
}
