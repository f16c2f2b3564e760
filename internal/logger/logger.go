package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"reviewhub/internal/config"
)

var log = logrus.New()

// Init configures the process-wide logger from LOG_LEVEL / LOG_FORMAT.
func Init(cfg *config.Config) {
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func Get() *logrus.Logger {
	return log
}
