package payment

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds the resolved Stripe credentials for this process.
// The test/live split happens once at startup (config.StripeConfig.Resolve);
// nothing here branches on environment.
type StripeConfig struct {
	// APIKey is the Stripe secret key (sk_test_xxx or sk_live_xxx)
	APIKey string

	// WebhookSecret verifies inbound event signatures (whsec_xxx)
	WebhookSecret string

	// SuccessURL is the redirect target after a completed checkout.
	// May contain the {CHECKOUT_SESSION_ID} placeholder.
	SuccessURL string

	// CancelURL is the redirect target after an abandoned checkout
	CancelURL string

	// Currency for all line items and shipping fees (e.g. "usd")
	Currency string
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("stripe: API key is required")
	}
	if !strings.HasPrefix(c.APIKey, "sk_") {
		return fmt.Errorf("stripe: API key must be a secret key")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	if c.SuccessURL == "" || c.CancelURL == "" {
		return fmt.Errorf("stripe: success and cancel URLs are required")
	}
	return nil
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.APIKey
}
