// internal/logger/logger.go
package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fairprice/fairprice-backend/internal/config"
)

// Init configures the global logrus logger. Production defaults to JSON
// output; everything else gets the text formatter with full timestamps.
func Init(environment string, cfg config.LogConfig) {
	logrus.SetOutput(os.Stdout)

	format := cfg.Format
	if format == "" {
		format = "text"
		if environment == "production" {
			format = "json"
		}
	}

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		logrus.WithField("level", cfg.Level).Warn("Unknown log level, falling back to info")
	}
	logrus.SetLevel(level)
}
