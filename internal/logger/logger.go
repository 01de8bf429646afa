// Package logger provides structured logging for the analysis services.
// It wraps logrus and adds domain-specific loggers for the engine,
// reference data sources and the audit trail.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the shared application logger for the given log
// level and deployment environment. Production and staging emit JSON
// for log aggregation; every other environment gets human-readable
// text. An unparseable level falls back to info.
func NewLogger(level, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	switch strings.ToLower(environment) {
	case "production", "staging":
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
				logrus.FieldKeyMsg:  "message",
			},
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	if err != nil {
		log.WithField("level", level).Warn("Unknown log level, using info")
	}

	return log
}
