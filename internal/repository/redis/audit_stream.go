package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"docspace/internal/domain/services"

	goredis "github.com/redis/go-redis/v9"
)

// StreamAuditSink appends audit events to a redis stream from a background
// goroutine. Emit never blocks; events are dropped when the buffer is full.
type StreamAuditSink struct {
	rdb     StreamClient
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	events chan services.AuditEvent
	wg     sync.WaitGroup
}

// NewStreamAuditSink starts the publisher goroutine. Call Close to flush it.
func NewStreamAuditSink(rdb StreamClient, stream string, buffer int, logger *slog.Logger) *StreamAuditSink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &StreamAuditSink{
		rdb:     rdb,
		stream:  stream,
		maxLen:  100_000,
		timeout: 2 * time.Second,
		logger:  logger,
		events:  make(chan services.AuditEvent, buffer),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Emit queues an event for publishing
func (s *StreamAuditSink) Emit(_ context.Context, event services.AuditEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- event:
	default:
		s.logger.Warn("audit stream buffer full, dropping event",
			"action", event.Action,
			"tenant_id", event.TenantID,
			"target_id", event.TargetID,
		)
	}
}

// Close stops accepting events and waits for queued ones to be published
func (s *StreamAuditSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *StreamAuditSink) run() {
	defer s.wg.Done()
	for event := range s.events {
		s.publish(event)
	}
}

func (s *StreamAuditSink) publish(event services.AuditEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal audit event", "action", event.Action, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err = s.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"action":    string(event.Action),
			"tenant_id": event.TenantID,
			"payload":   payload,
		},
	}).Err()
	if err != nil {
		s.logger.Warn("audit stream publish failed",
			"stream", s.stream,
			"action", event.Action,
			"error", err,
		)
	}
}
