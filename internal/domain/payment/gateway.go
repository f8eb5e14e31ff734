package payment

import "context"

// Gateway abstracts the hosted-checkout payment processor. The concrete
// implementation lives in infrastructure/payment (Stripe).
type Gateway interface {
	// CreateSession creates a hosted checkout session and returns it
	// with the redirect URL populated
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)

	// GetSession re-fetches the full session by id. Implementations
	// must expand whatever the raw webhook payload truncates (shipping
	// method display name, totals, collected customer details).
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// ListLineItems returns the purchased line items for a session
	ListLineItems(ctx context.Context, sessionID string) ([]SessionLineItem, error)

	// VerifyEvent checks the signature of a raw webhook body against
	// the shared secret and parses the event. It must fail closed: an
	// unverifiable payload returns an error and no event.
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
