package ports

import (
	"context"
	"ride-quote-service/internal/domain"
)

// Contract for announcing completed quotes to downstream consumers.
type QuotePublisher interface {
	Publish(ctx context.Context, q *domain.QuoteResult) error
}
