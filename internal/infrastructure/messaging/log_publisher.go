package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/port"
)

var _ port.EventPublisher = (*LogEventPublisher)(nil)

// LogEventPublisher implements port.EventPublisher by writing each event to
// the log. It is used when no Kafka brokers are configured.
type LogEventPublisher struct {
	topic  string
	logger *slog.Logger
}

// NewLogEventPublisher creates a publisher that logs events under the given topic name.
func NewLogEventPublisher(topic string, logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{
		topic:  topic,
		logger: logger,
	}
}

// Publish serialises and logs domain events.
func (p *LogEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload", string(payload),
		)
	}
	return nil
}
