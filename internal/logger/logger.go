package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dm9/collections-engine/internal/config"
)

// New builds a configured logrus logger. JSON output in production, colored
// text during development.
func New(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		log.Warnf("invalid log level %q, defaulting to info", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() || cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return log
}
