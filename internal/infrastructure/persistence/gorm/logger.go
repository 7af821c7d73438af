package gorm

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// LogWriter routes GORM's formatted log lines into zap
type LogWriter struct {
	logger *zap.Logger
}

// Printf implements logger.Writer
func (w *LogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("Slow query", zap.String("message", msg))
	case strings.Contains(msg, "error"), strings.Contains(msg, "ERROR"):
		w.logger.Error("Query failed", zap.String("message", msg))
	default:
		w.logger.Debug("Query", zap.String("message", msg))
	}
}

// NewLogger builds a GORM logger writing through log. level takes the
// application's level names; GORM is one step quieter than the app so that
// "info" does not trace every statement.
func NewLogger(log *zap.Logger, level string, slowThreshold time.Duration) logger.Interface {
	logLevel := logger.Silent
	switch level {
	case "debug":
		logLevel = logger.Info
	case "info":
		logLevel = logger.Warn
	case "warn", "error":
		logLevel = logger.Error
	}

	return logger.New(
		&LogWriter{logger: log.Named("gorm")},
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
