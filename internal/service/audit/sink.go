package audit

import (
	"context"
	"log/slog"

	"docspace/internal/domain/services"
)

// LogSink writes audit events to a structured logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs every event at Info
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "audit")}
}

// Emit logs the event
func (s *LogSink) Emit(ctx context.Context, event services.AuditEvent) {
	attrs := []any{
		"action", event.Action,
		"tenant_id", event.TenantID,
		"user_id", event.UserID,
		"target_id", event.TargetID,
		"occurred_at", event.OccurredAt,
	}
	for k, v := range event.Details {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "audit", attrs...)
}

// Fanout delivers each event to every sink in order
type Fanout []services.AuditSink

// Emit forwards the event
func (f Fanout) Emit(ctx context.Context, event services.AuditEvent) {
	for _, sink := range f {
		if sink != nil {
			sink.Emit(ctx, event)
		}
	}
}
