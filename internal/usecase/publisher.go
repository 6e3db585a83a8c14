package usecase

import "context"

// EventPublisher is the outbound port for catalog events. The NATS
// adapter satisfies it in production; tests substitute a recorder.
// Publish failures are observability losses, never operation failures.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
