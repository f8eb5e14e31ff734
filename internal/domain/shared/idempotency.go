package shared

import (
	"context"
	"time"
)

// IdempotencyStore records checkout session ids whose fulfillment side
// effects (label purchase, notification emails) have already run. The
// payment processor may redeliver a completed-payment event; a redelivery
// must not buy a second label or resend emails.
type IdempotencyStore interface {
	// MarkProcessed atomically records a session id with a TTL.
	// Returns true if the id was newly recorded, false if fulfillment
	// already ran for it.
	MarkProcessed(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether fulfillment already ran for a session id
	IsProcessed(ctx context.Context, sessionID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for duplicate-delivery handling
type IdempotencyConfig struct {
	// TTL is the retention period for processed session ids. Stripe
	// redelivers failed webhooks for up to three days, so the default
	// of 72 hours covers the full redelivery window.
	TTL time.Duration

	// Enabled determines whether duplicate-delivery checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     72 * time.Hour,
		Enabled: true,
	}
}
