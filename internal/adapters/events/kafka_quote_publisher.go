package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines the subset of kafka.Writer the publisher uses.
// This allows for easy mocking in unit tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type quoteEvent struct {
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DistanceKm     *float64  `json:"distance_km"`
	DurationMin    *float64  `json:"duration_min"`
	Price          *float64  `json:"price"`
	Currency       string    `json:"currency"`
	DistanceSource string    `json:"distance_source"`
	RequestID      string    `json:"request_id,omitempty"`
	QuotedAt       time.Time `json:"quoted_at"`
}

// KafkaQuotePublisher writes one JSON message per completed quote,
// keyed by "origin|destination" so a pair always lands on one partition.
type KafkaQuotePublisher struct {
	writer KafkaWriter
	now    func() time.Time
}

func NewKafkaQuotePublisher(broker, topic string) (*KafkaQuotePublisher, error) {
	if broker == "" || topic == "" {
		return nil, errors.New("kafka publisher: broker and topic are required")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           2 * time.Second,
		AllowAutoTopicCreation: true,
	}

	return NewKafkaQuotePublisherWithWriter(w), nil
}

func NewKafkaQuotePublisherWithWriter(w KafkaWriter) *KafkaQuotePublisher {
	return &KafkaQuotePublisher{writer: w, now: time.Now}
}

func (p *KafkaQuotePublisher) Publish(ctx context.Context, q *domain.QuoteResult) (err error) {
	defer obs.Time(ctx, "events.PublishQuote")(&err)

	if q == nil {
		return errors.New("publish quote: nil quote")
	}

	b, err := json.Marshal(quoteEvent{
		Origin:         q.Origin,
		Destination:    q.Destination,
		DistanceKm:     q.DistanceKm,
		DurationMin:    q.DurationMin,
		Price:          q.Price,
		Currency:       q.Currency,
		DistanceSource: q.DistanceSource,
		RequestID:      obs.RequestID(ctx),
		QuotedAt:       p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish quote: encode: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(q.Origin + "|" + q.Destination),
		Value: b,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish quote: write message: %w", err)
	}

	return nil
}

// Close flushes pending messages and releases the writer.
func (p *KafkaQuotePublisher) Close() error {
	return p.writer.Close()
}
