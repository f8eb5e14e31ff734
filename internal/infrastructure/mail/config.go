package mail

import "time"

// Config holds email provider settings. A blank APIKey, FromAddress or
// MerchantAddress leaves the sender disabled; callers treat that as a
// valid skipped state rather than a failure.
type Config struct {
	// APIKey is the email provider credential
	APIKey string

	// BaseURL is the provider API root, e.g. "https://api.resend.com".
	// Overridable for tests.
	BaseURL string

	// Timeout bounds each send round-trip
	Timeout time.Duration

	// FromAddress is the sender for both merchant and customer emails
	FromAddress string

	// MerchantAddress receives the merchant order notification
	MerchantAddress string

	// ReplyTo, when set, is attached to customer emails
	ReplyTo string
}

// Enabled reports whether enough configuration is present to send
func (c *Config) Enabled() bool {
	return c.APIKey != "" && c.FromAddress != "" && c.MerchantAddress != ""
}
