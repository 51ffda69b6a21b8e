package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
)

// AuditPublisher abstracts audit event publishing. All methods tolerate a nil
// bus; the assistant must keep answering when NATS is down or unconfigured.
type AuditPublisher interface {
	PublishQueryProcessed(ctx context.Context, userId uuid.UUID, role, queryKind string, confidence float64, elapsed time.Duration, sources []string)
	PublishAccessDenied(ctx context.Context, userId uuid.UUID, role, resource, reason string)
}

// EventBus is the transport the audit publisher writes to.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
}

// NatsAuditPublisher implements AuditPublisher over the NATS event bus.
type NatsAuditPublisher struct {
	bus EventBus
	log logger.ILogger
}

func NewNatsAuditPublisher(bus EventBus, log logger.ILogger) *NatsAuditPublisher {
	return &NatsAuditPublisher{bus: bus, log: log}
}

// PublishQueryProcessed emits QUERY_PROCESSED after every answered query.
func (p *NatsAuditPublisher) PublishQueryProcessed(ctx context.Context, userId uuid.UUID, role, queryKind string, confidence float64, elapsed time.Duration, sources []string) {
	if p.bus == nil {
		return
	}

	now := time.Now()
	evt := BaseEvent{
		Type: "QUERY_PROCESSED",
		Data: map[string]interface{}{
			"user_id":            userId.String(),
			"role":               role,
			"query_kind":         queryKind,
			"confidence":         confidence,
			"processing_time_ms": elapsed.Milliseconds(),
			"sources":            sources,
			"occurred_at":        now,
		},
		OccurredAt: now,
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		p.log.Error("AUDIT", "Failed to publish QUERY_PROCESSED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishAccessDenied emits ACCESS_DENIED whenever a permission check blocks
// a source.
func (p *NatsAuditPublisher) PublishAccessDenied(ctx context.Context, userId uuid.UUID, role, resource, reason string) {
	if p.bus == nil {
		return
	}

	now := time.Now()
	evt := BaseEvent{
		Type: "ACCESS_DENIED",
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"role":        role,
			"resource":    resource,
			"reason":      reason,
			"occurred_at": now,
		},
		OccurredAt: now,
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		p.log.Error("AUDIT", "Failed to publish ACCESS_DENIED event", map[string]interface{}{"error": err.Error()})
	}
}
