// Package events publishes domain events to Kafka. Publishing is
// best-effort: a checkout never fails because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TopicOrderPlaced = "order.placed"

// OrderPlaced is emitted once per order at checkout.
type OrderPlaced struct {
	OrderID     uuid.UUID       `json:"orderId"`
	ClientID    uuid.UUID       `json:"clientId"`
	SellerID    uuid.UUID       `json:"sellerId"`
	ProductID   uuid.UUID       `json:"productId"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	PaymentMode string          `json:"paymentMode"`
	PlacedAt    time.Time       `json:"placedAt"`
}

// Producer wraps a sarama sync producer. A nil *Producer is a valid
// no-op, so wiring Kafka stays optional.
type Producer struct {
	producer sarama.SyncProducer
	logger   *slog.Logger
}

func NewProducer(brokers []string, logger *slog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("events: brokers required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_7_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("events: create producer: %w", err)
	}
	return &Producer{producer: producer, logger: logger}, nil
}

// PublishOrderPlaced emits the event keyed by seller id so one seller's
// orders stay ordered on a partition. Failures are logged, not returned.
func (p *Producer) PublishOrderPlaced(ctx context.Context, event OrderPlaced) {
	if p == nil {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal order event", "error", err)
		return
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: TopicOrderPlaced,
		Key:   sarama.StringEncoder(event.SellerID.String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "publish order event", "order_id", event.OrderID, "error", err)
		return
	}
}

func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
