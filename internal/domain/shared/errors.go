package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")

	// Cart and catalog errors surfaced at checkout-session creation
	ErrInvalidCartItem   = NewDomainError("INVALID_CART_ITEM", "Cart item is invalid")
	ErrEmptyCart         = NewDomainError("EMPTY_CART", "Cart contains no items")
	ErrQuantityExceeded  = NewDomainError("QUANTITY_EXCEEDED", "Quantity exceeds the per-item limit")
	ErrPriceNotFound     = NewDomainError("PRICE_NOT_FOUND", "No price found for this scent and size")
	ErrScentNotAllowed   = NewDomainError("SCENT_NOT_ALLOWED", "Scent is not in the allowed catalog")
	ErrUpstreamProcessor = NewDomainError("UPSTREAM_PROCESSOR", "Payment processor request failed")

	// Webhook-time errors; logged and isolated per sub-step, never surfaced
	// to the event source once signature verification has passed
	ErrSignatureInvalid  = NewDomainError("SIGNATURE_INVALID", "Event signature verification failed")
	ErrNoRatesAvailable  = NewDomainError("NO_RATES_AVAILABLE", "Shipping processor returned no rates")
	ErrShippingProcessor = NewDomainError("SHIPPING_PROCESSOR", "Shipping processor request failed")
	ErrEmailProvider     = NewDomainError("EMAIL_PROVIDER", "Email provider request failed")
)
