package payment

import "github.com/candleworks/backend/internal/domain/shared"

// LineItemSpec is one server-priced line sent to the payment processor
// when creating a hosted checkout session. The unit amount is always
// the server-computed price; client-submitted prices never reach this
// type.
type LineItemSpec struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

// ShippingOption is the single, pre-resolved shipping fee attached to a
// session. Exactly one option is attached so the fee is deterministic
// and tamper-proof.
type ShippingOption struct {
	Label       string
	AmountCents int64
}

// SessionRequest describes a hosted checkout session to be created
type SessionRequest struct {
	Items            []LineItemSpec
	Shipping         ShippingOption
	CustomerEmail    string
	AllowedCountries []string
	// Metadata is recorded on the session for later audit and for the
	// webhook to recover structured order data. Opaque to the processor.
	Metadata map[string]string
}

// Session is the processor's representation of one pending or completed
// transaction, re-fetched by id. Monetary amounts are integer cents.
type Session struct {
	ID                  string
	URL                 string
	Status              string
	PaymentStatus       string
	Currency            string
	AmountSubtotalCents int64
	AmountShippingCents int64
	AmountTaxCents      int64
	AmountTotalCents    int64
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	ShippingMethod      string
	ShippingAddress     shared.Address
	Metadata            map[string]string
}

// SessionLineItem is one purchased line as reported by the processor.
// Description is display text; structured scent/size data lives in the
// session metadata and is only re-derived from Description as a
// fallback.
type SessionLineItem struct {
	Description      string
	Quantity         int64
	UnitAmountCents  int64
	AmountTotalCents int64
}

// Event is a verified webhook notification. SessionID is populated for
// checkout-session events.
type Event struct {
	ID        string
	Type      string
	SessionID string
}

// EventTypeCheckoutCompleted is the one event type that triggers
// fulfillment
const EventTypeCheckoutCompleted = "checkout.session.completed"
