package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

// Init configures the package-level logger. Development gets human-readable
// text at debug level, everything else structured JSON at info level.
func Init(environment string) {
	var handler slog.Handler
	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	log = slog.New(handler)
}

func ensure() *slog.Logger {
	if log == nil {
		log = slog.Default()
	}
	return log
}

func Debug(msg string, args ...any) {
	ensure().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	ensure().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	ensure().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	ensure().Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	ensure().Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets callers pass a bare error or value after the message
// without breaking slog's key-value pairing.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}

	out := make([]any, 0, len(args)+1)
	switch v := args[0].(type) {
	case error:
		out = append(out, "error", v.Error())
	default:
		out = append(out, "detail", v)
	}
	out = append(out, args[1:]...)
	return out
}
