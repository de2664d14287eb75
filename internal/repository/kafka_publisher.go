package repository

import (
	"context"
	"fmt"

	"MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	pkgkafka "MarketBoard/pkg/kafka"
	"MarketBoard/pkg/logger"
)

// KafkaPublisher fans refresh quotes out to a Kafka topic, keyed by
// symbol so per-asset ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	logger   *logger.Logger
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string, l *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: l}
}

func (p *KafkaPublisher) PublishQuotes(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	keys := make([][]byte, len(quotes))
	values := make([]interface{}, len(quotes))
	for i, q := range quotes {
		keys[i] = []byte(q.Symbol)
		values[i] = q
	}

	if err := p.producer.PublishBatch(ctx, p.topic, keys, values); err != nil {
		return fmt.Errorf("publish quotes: %w", err)
	}
	p.logger.Debug("published refresh quotes",
		logger.String("topic", p.topic),
		logger.Int("count", len(quotes)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when no message backend is configured.
type NopPublisher struct{}

func (NopPublisher) PublishQuotes(context.Context, []models.Quote) error { return nil }
func (NopPublisher) Close() error                                        { return nil }
