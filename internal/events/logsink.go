package events

import "log/slog"

// LogSink reports events through slog at Debug level: high-volume, only
// interesting when an operator has turned verbosity up, matching the
// teacher's per-request-at-debug logging convention.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(e Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.Int("kind", int(e.Kind))}
	switch {
	case e.Hdr != nil:
		attrs = append(attrs, slog.String("session", e.Hdr.SessionID), slog.Bool("query", e.Hdr.IsQuery))
	case e.Ans != nil:
		attrs = append(attrs, slog.String("session", e.Ans.SessionID), slog.Bool("query", e.Ans.IsQuery))
	}
	if e.Ans != nil {
		attrs = append(attrs, slog.String("name", e.Ans.Query), slog.String("section", e.Ans.Section))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	logger.Debug("dns event", attrs...)
}
