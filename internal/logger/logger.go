package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/ashconsole/internal/config"
)

// New creates the console's JSON slog.Logger at the configured level.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, cfg.LogLevel)
}

func newWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", "ashconsole"))
}
