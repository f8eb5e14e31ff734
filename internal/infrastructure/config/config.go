package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Stripe    StripeConfig
	Shipping  ShippingConfig
	Mail      MailConfig
	Checkout  CheckoutConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string // "production" selects the live key pairs, anything else the test pairs
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// RedisConfig holds Redis connection settings for the idempotency store
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// KeyPair is one environment's credential pair for an external
// processor
type KeyPair struct {
	APIKey        string
	WebhookSecret string
}

// StripeConfig holds both Stripe credential pairs. The profile for the
// running environment is resolved once at startup; business code never
// branches on environment inline.
type StripeConfig struct {
	Test            KeyPair
	Live            KeyPair
	SuccessURL      string
	CancelURL       string
	DefaultCurrency string
}

// Resolve picks the credential pair for the given environment
func (c StripeConfig) Resolve(env string) KeyPair {
	if env == "production" {
		return c.Live
	}
	return c.Test
}

// ShippingConfig holds shipping processor settings and the fixed
// physical constants of the fulfillment operation
type ShippingConfig struct {
	TestAPIKey string
	LiveAPIKey string
	BaseURL    string
	Timeout    time.Duration

	// Origin is the fixed ship-from address
	OriginName    string
	OriginStreet1 string
	OriginCity    string
	OriginState   string
	OriginZip     string
	OriginCountry string
	OriginPhone   string

	// One box size fits all orders
	ParcelLengthIn float64
	ParcelWidthIn  float64
	ParcelHeightIn float64

	InsuranceAmount string

	PreferredCarrier  string
	PreferredServices []string

	// FallbackSize is assumed when a line item's size cannot be
	// recovered from order data
	FallbackSize string
}

// ResolveAPIKey picks the API key for the given environment
func (c ShippingConfig) ResolveAPIKey(env string) string {
	if env == "production" {
		return c.LiveAPIKey
	}
	return c.TestAPIKey
}

// MailConfig holds email provider settings. Any blank required field
// switches notifications into the skipped (no-op) state.
type MailConfig struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	FromAddress     string
	MerchantAddress string
	ReplyTo         string
}

// CheckoutConfig holds the shipping fee schedule and session policy
type CheckoutConfig struct {
	// FlatFeeCents, when > 0, replaces the tiered schedule with a
	// single flat fee
	FlatFeeCents int64

	// Quantity-tiered fees: 1 item, 2-3 items, 4+ items
	TierOneCents   int64
	TierTwoCents   int64
	TierThreeCents int64

	// FreeShippingThresholdCents zeroes the fee when the subtotal
	// meets or exceeds it
	FreeShippingThresholdCents int64

	AllowedCountries []string

	// AllowedScents, when non-empty, switches the catalog resolver to
	// allow-list mode
	AllowedScents []string

	IdempotencyTTL time.Duration
}

// TelemetryConfig holds OpenTelemetry tracing configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CANDLE_ prefix (e.g. CANDLE_STRIPE_TEST_APIKEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CANDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Stripe: StripeConfig{
			Test: KeyPair{
				APIKey:        v.GetString("stripe.test.apikey"),
				WebhookSecret: v.GetString("stripe.test.webhook_secret"),
			},
			Live: KeyPair{
				APIKey:        v.GetString("stripe.live.apikey"),
				WebhookSecret: v.GetString("stripe.live.webhook_secret"),
			},
			SuccessURL:      v.GetString("stripe.success_url"),
			CancelURL:       v.GetString("stripe.cancel_url"),
			DefaultCurrency: v.GetString("stripe.default_currency"),
		},
		Shipping: ShippingConfig{
			TestAPIKey:        v.GetString("shipping.test_apikey"),
			LiveAPIKey:        v.GetString("shipping.live_apikey"),
			BaseURL:           v.GetString("shipping.base_url"),
			Timeout:           v.GetDuration("shipping.timeout"),
			OriginName:        v.GetString("shipping.origin.name"),
			OriginStreet1:     v.GetString("shipping.origin.street1"),
			OriginCity:        v.GetString("shipping.origin.city"),
			OriginState:       v.GetString("shipping.origin.state"),
			OriginZip:         v.GetString("shipping.origin.zip"),
			OriginCountry:     v.GetString("shipping.origin.country"),
			OriginPhone:       v.GetString("shipping.origin.phone"),
			ParcelLengthIn:    v.GetFloat64("shipping.parcel.length"),
			ParcelWidthIn:     v.GetFloat64("shipping.parcel.width"),
			ParcelHeightIn:    v.GetFloat64("shipping.parcel.height"),
			InsuranceAmount:   v.GetString("shipping.insurance_amount"),
			PreferredCarrier:  v.GetString("shipping.preferred_carrier"),
			PreferredServices: v.GetStringSlice("shipping.preferred_services"),
			FallbackSize:      v.GetString("shipping.fallback_size"),
		},
		Mail: MailConfig{
			APIKey:          v.GetString("mail.apikey"),
			BaseURL:         v.GetString("mail.base_url"),
			Timeout:         v.GetDuration("mail.timeout"),
			FromAddress:     v.GetString("mail.from_address"),
			MerchantAddress: v.GetString("mail.merchant_address"),
			ReplyTo:         v.GetString("mail.reply_to"),
		},
		Checkout: CheckoutConfig{
			FlatFeeCents:               v.GetInt64("checkout.flat_fee_cents"),
			TierOneCents:               v.GetInt64("checkout.tier_one_cents"),
			TierTwoCents:               v.GetInt64("checkout.tier_two_cents"),
			TierThreeCents:             v.GetInt64("checkout.tier_three_cents"),
			FreeShippingThresholdCents: v.GetInt64("checkout.free_shipping_threshold_cents"),
			AllowedCountries:           v.GetStringSlice("checkout.allowed_countries"),
			AllowedScents:              v.GetStringSlice("checkout.allowed_scents"),
			IdempotencyTTL:             v.GetDuration("checkout.idempotency_ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers built-in defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "candleworks-fulfillment")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.max_header_bytes", 1<<20)
	v.SetDefault("http.max_body_size", int64(1<<20))
	v.SetDefault("http.cors_allow_origins", []string{})
	v.SetDefault("http.cors_allow_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("http.cors_allow_headers", []string{"Content-Type", "Accept", "Origin", "X-Request-ID"})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("stripe.default_currency", "usd")
	v.SetDefault("stripe.success_url", "https://shop.candleworks.example/checkout/success?session_id={CHECKOUT_SESSION_ID}")
	v.SetDefault("stripe.cancel_url", "https://shop.candleworks.example/cart")

	v.SetDefault("shipping.base_url", "https://api.easypost.com/v2")
	v.SetDefault("shipping.timeout", "30s")
	v.SetDefault("shipping.origin.name", "Candleworks")
	v.SetDefault("shipping.origin.street1", "412 Foundry Ave")
	v.SetDefault("shipping.origin.city", "Lancaster")
	v.SetDefault("shipping.origin.state", "PA")
	v.SetDefault("shipping.origin.zip", "17602")
	v.SetDefault("shipping.origin.country", "US")
	v.SetDefault("shipping.origin.phone", "717-555-0114")
	v.SetDefault("shipping.parcel.length", 10.0)
	v.SetDefault("shipping.parcel.width", 8.0)
	v.SetDefault("shipping.parcel.height", 6.0)
	v.SetDefault("shipping.insurance_amount", "")
	v.SetDefault("shipping.preferred_carrier", "USPS")
	v.SetDefault("shipping.preferred_services", []string{"GroundAdvantage", "First", "ParcelSelect"})
	v.SetDefault("shipping.fallback_size", "12 oz")

	v.SetDefault("mail.base_url", "https://api.resend.com")
	v.SetDefault("mail.timeout", "15s")

	v.SetDefault("checkout.flat_fee_cents", 0)
	v.SetDefault("checkout.tier_one_cents", 595)
	v.SetDefault("checkout.tier_two_cents", 895)
	v.SetDefault("checkout.tier_three_cents", 1195)
	v.SetDefault("checkout.free_shipping_threshold_cents", 10000)
	v.SetDefault("checkout.allowed_countries", []string{"US"})
	v.SetDefault("checkout.idempotency_ttl", "72h")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.service_name", "candleworks-fulfillment")
	v.SetDefault("telemetry.insecure", true)
}

// Validate checks the configuration for inconsistencies that would
// only surface at request time
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("config: app.port is required")
	}

	keys := c.Stripe.Resolve(c.App.Env)
	if c.App.Env == "production" {
		if keys.APIKey == "" {
			return fmt.Errorf("config: stripe.live.apikey is required in production")
		}
		if !strings.HasPrefix(keys.APIKey, "sk_live") {
			return fmt.Errorf("config: production requires a live Stripe key")
		}
	} else if keys.APIKey != "" && strings.HasPrefix(keys.APIKey, "sk_live") {
		return fmt.Errorf("config: live Stripe key configured for a non-production environment")
	}

	if c.Checkout.FreeShippingThresholdCents < 0 {
		return fmt.Errorf("config: free shipping threshold must not be negative")
	}
	if c.Telemetry.Enabled && c.Telemetry.CollectorEndpoint == "" {
		return fmt.Errorf("config: telemetry.collector_endpoint is required when telemetry is enabled")
	}
	return nil
}
