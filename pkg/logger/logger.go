package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log *logrus.Logger

func init() {
	// Пакеты могут логировать до вызова Init (например, в тестах без TestMain).
	Log = logrus.New()
}

// Init настраивает глобальный логгер из окружения. Вызывается один раз из main
// и из TestMain.
//
//	LOG_LEVEL  - trace|debug|info|warn|error (по умолчанию info)
//	LOG_FORMAT - json для продакшена, иначе цветной текст
//	LOG_FILE   - дублировать вывод в файл
func Init() {
	Log = logrus.New()

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	var out io.Writer = os.Stdout
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			Log.WithError(err).WithField("path", path).Warn("Cannot open log file, logging to stdout only")
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	Log.SetOutput(out)
}

// Component возвращает логгер с полем component, чтобы не повторять его в каждом вызове.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
