package boorusnap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Logger describes the set of methods used for logging throughout this
// package; standard lib *log.Logger implements this interface, as does the
// slog-backed logger returned by NewLogger.
type Logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// NewLogger builds a levelled, human-readable Logger writing to w using
// github.com/lmittmann/tint, with verbosity controlled by level ("DEBUG",
// "INFO", "WARN", "ERROR"; unrecognized values fall back to "INFO").
func NewLogger(w io.Writer, level string) Logger {
	if w == nil {
		w = os.Stderr
	}
	h := tint.NewHandler(w, &tint.Options{Level: parseLevel(level)})
	return &slogLogger{slog.New(h)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// slogLogger adapts an *slog.Logger to the Logger interface used by the rest
// of this package, so adapters/cache code never import log/slog directly.
type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Print(v ...interface{}) {
	s.l.Log(context.Background(), slog.LevelInfo, fmt.Sprint(v...))
}

func (s *slogLogger) Printf(format string, v ...interface{}) {
	s.l.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (s *slogLogger) Println(v ...interface{}) {
	s.l.Log(context.Background(), slog.LevelInfo, fmt.Sprintln(v...))
}
