package dto

import "github.com/candleworks/backend/internal/domain/shared"

// CartItemRequest is one raw cart line as submitted by the storefront.
// The storefront sends both the product name and the scent; older pages
// send only one of the two. Prices are deliberately absent; the server
// resolves them. Quantity bounds beyond the zero check are enforced by
// the catalog so the dedicated error code reaches the client.
type CartItemRequest struct {
	Name     string `json:"name" binding:"required_without=Scent"`
	Scent    string `json:"scent" binding:"required_without=Name"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"qty" binding:"required,min=1"`
}

// ScentText returns the scent, falling back to the product name when
// only name was sent. Both feed the same normalization path.
func (i CartItemRequest) ScentText() string {
	if i.Scent != "" {
		return i.Scent
	}
	return i.Name
}

// CreateCheckoutSessionRequest is the body of POST /checkout/session
type CreateCheckoutSessionRequest struct {
	Cart          []CartItemRequest `json:"cart" binding:"required,min=1,dive"`
	CustomerEmail string            `json:"customerEmail" binding:"omitempty,email"`
}

// CheckoutSessionResponse is returned after session creation; the
// storefront redirects the customer to URL
type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SessionLineItemResponse is one purchased line in the status
// projection
type SessionLineItemResponse struct {
	Description      string `json:"description"`
	Quantity         int64  `json:"qty"`
	UnitAmountCents  int64  `json:"unit_amount_cents"`
	AmountTotalCents int64  `json:"amount_total_cents"`
}

// SessionStatusResponse is the projection of a session returned to the
// storefront's order status page: the totals breakdown, customer,
// shipping, and purchased lines. Internal metadata is not exposed.
type SessionStatusResponse struct {
	SessionID           string                    `json:"session_id"`
	Status              string                    `json:"status"`
	PaymentStatus       string                    `json:"payment_status"`
	Currency            string                    `json:"currency"`
	AmountSubtotalCents int64                     `json:"amount_subtotal_cents"`
	AmountShippingCents int64                     `json:"amount_shipping_cents"`
	AmountTaxCents      int64                     `json:"amount_tax_cents"`
	AmountTotalCents    int64                     `json:"amount_total_cents"`
	CustomerName        string                    `json:"customer_name,omitempty"`
	CustomerEmail       string                    `json:"customer_email,omitempty"`
	ShippingMethod      string                    `json:"shipping_method,omitempty"`
	ShippingAddress     *shared.Address           `json:"shipping_address,omitempty"`
	LineItems           []SessionLineItemResponse `json:"line_items"`
}

// WebhookResponse acknowledges a webhook delivery
type WebhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Message   string `json:"message,omitempty"`
}
