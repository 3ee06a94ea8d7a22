package event

import (
	"io"
	"log/slog"

	"github.com/nroyer/docseal/internal/protect"
)

// NewLogger builds the run logger. Level is one of debug, info, warn,
// error; format is text or json.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SlogSink mirrors events onto a structured logger, one record per event.
type SlogSink struct {
	L *slog.Logger
}

func (s SlogSink) Handle(ev Event) {
	if ev.Kind == KindWarning {
		args := []any{"file", ev.Rel}
		if ev.Err != nil {
			args = append(args, "cause", ev.Err)
		}
		s.L.Warn(ev.Message, args...)
		return
	}

	if ev.Outcome == protect.OutcomeError {
		s.L.Error("processing failed", "file", ev.Rel, "cause", ev.Err)
		return
	}
	s.L.Info("processed",
		"file", ev.Rel,
		"outcome", ev.Outcome.String(),
		"bytes", ev.Bytes,
	)
}
