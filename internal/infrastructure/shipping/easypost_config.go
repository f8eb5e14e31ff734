package shipping

import (
	"fmt"
	"time"
)

// EasyPostConfig holds the resolved configuration for the EasyPost
// client. The test/live key split is resolved at startup, like the
// Stripe profile.
type EasyPostConfig struct {
	// APIKey is the EasyPost API key for this environment
	APIKey string

	// BaseURL is the API root, e.g. "https://api.easypost.com/v2".
	// Overridable for tests.
	BaseURL string

	// Timeout bounds each round-trip to the API; expiry is treated as
	// that call's normal failure mode
	Timeout time.Duration
}

// Validate validates the EasyPost configuration
func (c *EasyPostConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("easypost: API key is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("easypost: base URL is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
