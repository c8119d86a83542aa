package logging

import (
	"log/slog"
	"os"
)

// Fields carries structured context attached to a log entry.
type Fields map[string]any

// Logger is a component-scoped structured logger.
type Logger struct {
	l *slog.Logger
}

// New creates a logger scoped to the given component name.
func New(component string) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	return &Logger{
		l: slog.New(handler).With("component", component),
	}
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (lg *Logger) Debug(msg string, fields ...Fields) {
	lg.l.Debug(msg, args(fields)...)
}

func (lg *Logger) Info(msg string, fields ...Fields) {
	lg.l.Info(msg, args(fields)...)
}

func (lg *Logger) Warn(msg string, fields ...Fields) {
	lg.l.Warn(msg, args(fields)...)
}

func (lg *Logger) Error(msg string, fields ...Fields) {
	lg.l.Error(msg, args(fields)...)
}

// Fatal logs at error level and exits the process.
func (lg *Logger) Fatal(msg string, fields ...Fields) {
	lg.l.Error(msg, args(fields)...)
	os.Exit(1)
}

func args(fields []Fields) []any {
	if len(fields) == 0 {
		return nil
	}
	out := make([]any, 0, len(fields[0])*2)
	for _, f := range fields {
		for k, v := range f {
			out = append(out, k, v)
		}
	}
	return out
}
