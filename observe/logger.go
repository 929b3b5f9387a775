// Package observe turns engine lifecycle events into logs and Prometheus metrics.
package observe

import (
	"context"
	"log/slog"

	"github.com/alt-coder/pocketgraph/core"
)

// Logger logs every event. Starts, ends and retries are logged at debug or
// info; fallbacks at warn; errors at error.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a logging observer.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Notify implements core.Observer.
func (l *Logger) Notify(ctx context.Context, e core.Event) {
	attrs := []any{"node", e.Node}
	if e.Action != "" {
		attrs = append(attrs, "action", string(e.Action))
	}
	if e.Attempt > 0 {
		attrs = append(attrs, "attempt", e.Attempt)
	}
	if e.Duration > 0 {
		attrs = append(attrs, "duration", e.Duration)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}

	msg := string(e.Type)
	switch e.Type {
	case core.EventNodeStart, core.EventNodeEnd:
		l.logger.DebugContext(ctx, msg, attrs...)
	case core.EventNodeRetry:
		l.logger.InfoContext(ctx, msg, attrs...)
	case core.EventNodeFallback:
		l.logger.WarnContext(ctx, msg, attrs...)
	case core.EventNodeError:
		l.logger.ErrorContext(ctx, msg, attrs...)
	case core.EventFlowEnd:
		if e.Err != nil {
			l.logger.ErrorContext(ctx, msg, attrs...)
			return
		}
		l.logger.InfoContext(ctx, msg, attrs...)
	default:
		l.logger.InfoContext(ctx, msg, attrs...)
	}
}
