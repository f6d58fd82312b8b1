// Package events publishes search analytics to Kafka. Publishing is
// fire-and-forget: a nil producer or a broker outage never affects the
// search path.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripscout/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// SearchEvent is one analytics record on the search event stream.
type SearchEvent struct {
	Type         string               `json:"type"` // "search_completed" | "session_continued"
	SessionToken string               `json:"sessionToken"`
	UserID       string               `json:"userId,omitempty"`
	Mode         models.SearchMode    `json:"mode,omitempty"`
	Destination  string               `json:"destination,omitempty"`
	Status       models.SessionStatus `json:"status,omitempty"`
	ResultCount  int                  `json:"resultCount"`
	Duration     time.Duration        `json:"duration,omitempty"`
	At           time.Time            `json:"at"`
}

// Producer writes search events to one Kafka topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewProducer builds a producer for the given brokers. A nil return (empty
// broker list) disables publishing.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &Producer{writer: writer, topic: topic, logger: logger}
}

// Publish emits one event, keyed by session token. Errors are logged, not
// returned: analytics must never fail a search.
func (p *Producer) Publish(ctx context.Context, event SearchEvent) {
	if p == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal search event", zap.Error(err))
		return
	}
	msg := kafka.Message{
		Key:   []byte(event.SessionToken),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("failed to publish search event",
			zap.String("type", event.Type), zap.Error(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
