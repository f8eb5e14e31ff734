package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"CANDLE_APP_NAME",
	"CANDLE_APP_ENV",
	"CANDLE_APP_PORT",
	"CANDLE_LOG_LEVEL",
	"CANDLE_REDIS_ENABLED",
	"CANDLE_REDIS_HOST",
	"CANDLE_STRIPE_TEST_APIKEY",
	"CANDLE_STRIPE_TEST_WEBHOOK_SECRET",
	"CANDLE_STRIPE_LIVE_APIKEY",
	"CANDLE_STRIPE_LIVE_WEBHOOK_SECRET",
	"CANDLE_SHIPPING_TEST_APIKEY",
	"CANDLE_SHIPPING_LIVE_APIKEY",
	"CANDLE_MAIL_APIKEY",
	"CANDLE_CHECKOUT_FLAT_FEE_CENTS",
	"CANDLE_CHECKOUT_IDEMPOTENCY_TTL",
	"CANDLE_TELEMETRY_ENABLED",
	"CANDLE_TELEMETRY_COLLECTOR_ENDPOINT",
}

// withCleanEnv clears all config env vars and restores them after the test
func withCleanEnv(t *testing.T) {
	t.Helper()
	saved := map[string]string{}
	for _, k := range configEnvVars {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	withCleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "candleworks-fulfillment", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)

	assert.Equal(t, "usd", cfg.Stripe.DefaultCurrency)
	assert.Contains(t, cfg.Stripe.SuccessURL, "{CHECKOUT_SESSION_ID}")

	assert.Equal(t, "https://api.easypost.com/v2", cfg.Shipping.BaseURL)
	assert.Equal(t, "USPS", cfg.Shipping.PreferredCarrier)
	assert.Equal(t, []string{"GroundAdvantage", "First", "ParcelSelect"}, cfg.Shipping.PreferredServices)
	assert.Equal(t, "12 oz", cfg.Shipping.FallbackSize)
	assert.Equal(t, "Lancaster", cfg.Shipping.OriginCity)

	assert.Equal(t, "https://api.resend.com", cfg.Mail.BaseURL)

	assert.Equal(t, int64(0), cfg.Checkout.FlatFeeCents)
	assert.Equal(t, int64(595), cfg.Checkout.TierOneCents)
	assert.Equal(t, int64(895), cfg.Checkout.TierTwoCents)
	assert.Equal(t, int64(1195), cfg.Checkout.TierThreeCents)
	assert.Equal(t, int64(10000), cfg.Checkout.FreeShippingThresholdCents)
	assert.Equal(t, []string{"US"}, cfg.Checkout.AllowedCountries)
	assert.Equal(t, 72*time.Hour, cfg.Checkout.IdempotencyTTL)

	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("CANDLE_APP_NAME", "candleworks-staging")
	os.Setenv("CANDLE_APP_PORT", "9000")
	os.Setenv("CANDLE_LOG_LEVEL", "debug")
	os.Setenv("CANDLE_REDIS_ENABLED", "true")
	os.Setenv("CANDLE_REDIS_HOST", "redis.internal")
	os.Setenv("CANDLE_STRIPE_TEST_APIKEY", "sk_test_abc")
	os.Setenv("CANDLE_CHECKOUT_FLAT_FEE_CENTS", "700")
	os.Setenv("CANDLE_CHECKOUT_IDEMPOTENCY_TTL", "24h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "candleworks-staging", cfg.App.Name)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "sk_test_abc", cfg.Stripe.Test.APIKey)
	assert.Equal(t, int64(700), cfg.Checkout.FlatFeeCents)
	assert.Equal(t, 24*time.Hour, cfg.Checkout.IdempotencyTTL)
}

func TestLoad_ProductionRequiresLiveStripeKey(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("CANDLE_APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.live.apikey is required in production")
}

func TestLoad_ProductionRejectsTestKey(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("CANDLE_APP_ENV", "production")
	os.Setenv("CANDLE_STRIPE_LIVE_APIKEY", "sk_test_wrong")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "production requires a live Stripe key")
}

func TestLoad_DevelopmentRejectsLiveKey(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("CANDLE_STRIPE_TEST_APIKEY", "sk_live_oops")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "live Stripe key configured for a non-production environment")
}

func TestLoad_TelemetryRequiresEndpoint(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("CANDLE_TELEMETRY_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.collector_endpoint is required")
}

func TestStripeConfigResolve(t *testing.T) {
	cfg := StripeConfig{
		Test: KeyPair{APIKey: "sk_test_1", WebhookSecret: "whsec_test"},
		Live: KeyPair{APIKey: "sk_live_1", WebhookSecret: "whsec_live"},
	}

	assert.Equal(t, "sk_live_1", cfg.Resolve("production").APIKey)
	assert.Equal(t, "sk_test_1", cfg.Resolve("development").APIKey)
	assert.Equal(t, "sk_test_1", cfg.Resolve("staging").APIKey)
	assert.Equal(t, "whsec_test", cfg.Resolve("").WebhookSecret)
}

func TestShippingConfigResolveAPIKey(t *testing.T) {
	cfg := ShippingConfig{TestAPIKey: "EZTK_test", LiveAPIKey: "EZAK_live"}

	assert.Equal(t, "EZAK_live", cfg.ResolveAPIKey("production"))
	assert.Equal(t, "EZTK_test", cfg.ResolveAPIKey("development"))
}
