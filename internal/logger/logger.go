package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

func New(appEnv string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if appEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
