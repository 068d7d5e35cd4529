package repository

import (
	"context"
	"fmt"

	"EconDash/internal/domain/models"
	domrepo "EconDash/internal/domain/repository"
)

// producer is the subset of pkg/kafka.Producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaSettlementPublisher writes settlement events as JSON, keyed by
// session so that one session's events stay ordered in a partition.
type KafkaSettlementPublisher struct {
	producer producer
	topic    string
}

func NewKafkaSettlementPublisher(p producer, topic string) *KafkaSettlementPublisher {
	return &KafkaSettlementPublisher{producer: p, topic: topic}
}

func (p *KafkaSettlementPublisher) Publish(ctx context.Context, e *models.SettlementEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(e.SessionID), e); err != nil {
		return fmt.Errorf("publish settlement %s/%d: %w", e.SessionID, e.Seq, err)
	}
	return nil
}

func (p *KafkaSettlementPublisher) Close() error {
	return p.producer.Close()
}

// NopSettlementPublisher drops every event. Used when events are disabled.
type NopSettlementPublisher struct{}

func (NopSettlementPublisher) Publish(context.Context, *models.SettlementEvent) error { return nil }
func (NopSettlementPublisher) Close() error                                          { return nil }

var (
	_ domrepo.SettlementPublisher = (*KafkaSettlementPublisher)(nil)
	_ domrepo.SettlementPublisher = NopSettlementPublisher{}
)
