package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	checkoutapp "github.com/candleworks/backend/internal/application/checkout"
	fulfillmentapp "github.com/candleworks/backend/internal/application/fulfillment"
	"github.com/candleworks/backend/internal/domain/catalog"
	"github.com/candleworks/backend/internal/domain/shared"
	domainshipping "github.com/candleworks/backend/internal/domain/shipping"
	"github.com/candleworks/backend/internal/infrastructure/cache"
	"github.com/candleworks/backend/internal/infrastructure/config"
	"github.com/candleworks/backend/internal/infrastructure/logger"
	"github.com/candleworks/backend/internal/infrastructure/mail"
	"github.com/candleworks/backend/internal/infrastructure/payment"
	"github.com/candleworks/backend/internal/infrastructure/shipping"
	"github.com/candleworks/backend/internal/infrastructure/telemetry"
	"github.com/candleworks/backend/internal/interfaces/http/handler"
	"github.com/candleworks/backend/internal/interfaces/http/middleware"
	"github.com/candleworks/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Candleworks fulfillment backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Payment gateway: the environment's key pair is resolved once here
	stripeKeys := cfg.Stripe.Resolve(cfg.App.Env)
	gateway, err := payment.NewStripeGateway(&payment.StripeConfig{
		APIKey:        stripeKeys.APIKey,
		WebhookSecret: stripeKeys.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
		Currency:      cfg.Stripe.DefaultCurrency,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	// Shipping carrier
	carrier, err := shipping.NewEasyPostClient(&shipping.EasyPostConfig{
		APIKey:  cfg.Shipping.ResolveAPIKey(cfg.App.Env),
		BaseURL: cfg.Shipping.BaseURL,
		Timeout: cfg.Shipping.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize shipping carrier", zap.Error(err))
	}
	if cfg.Shipping.InsuranceAmount != "" {
		carrier.SetInsurance(cfg.Shipping.InsuranceAmount)
	}

	// Email sender; an incomplete mail config runs with notifications off
	sender := mail.NewResendSender(&mail.Config{
		APIKey:          cfg.Mail.APIKey,
		BaseURL:         cfg.Mail.BaseURL,
		Timeout:         cfg.Mail.Timeout,
		FromAddress:     cfg.Mail.FromAddress,
		MerchantAddress: cfg.Mail.MerchantAddress,
		ReplyTo:         cfg.Mail.ReplyTo,
	}, log)
	if !sender.Enabled() {
		log.Warn("Email sender not configured, order notifications are disabled")
	}

	// Idempotency store: Redis when enabled, in-memory otherwise
	store, err := newIdempotencyStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Catalog resolver
	resolver := catalog.NewResolver(catalog.DefaultPriceTable())
	if len(cfg.Checkout.AllowedScents) > 0 {
		resolver.SetAllowedScents(cfg.Checkout.AllowedScents)
		log.Info("Catalog allow-list mode enabled",
			zap.Int("scents", len(cfg.Checkout.AllowedScents)))
	}

	// Application services
	checkoutService := checkoutapp.NewService(checkoutapp.ServiceConfig{
		Gateway:  gateway,
		Resolver: resolver,
		Fees: checkoutapp.FeeSchedule{
			FlatFeeCents:               cfg.Checkout.FlatFeeCents,
			TierOneCents:               cfg.Checkout.TierOneCents,
			TierTwoCents:               cfg.Checkout.TierTwoCents,
			TierThreeCents:             cfg.Checkout.TierThreeCents,
			FreeShippingThresholdCents: cfg.Checkout.FreeShippingThresholdCents,
		},
		AllowedCountries: cfg.Checkout.AllowedCountries,
		Logger:           log,
	})

	fulfillmentService := fulfillmentapp.NewService(fulfillmentapp.ServiceConfig{
		Gateway: gateway,
		Carrier: carrier,
		Sender:  sender,
		Store:   store,
		Logger:  log,
		Origin: shared.Address{
			Name:    cfg.Shipping.OriginName,
			Street1: cfg.Shipping.OriginStreet1,
			City:    cfg.Shipping.OriginCity,
			State:   cfg.Shipping.OriginState,
			Zip:     cfg.Shipping.OriginZip,
			Country: cfg.Shipping.OriginCountry,
			Phone:   cfg.Shipping.OriginPhone,
		},
		Parcel: domainshipping.Parcel{
			LengthIn: cfg.Shipping.ParcelLengthIn,
			WidthIn:  cfg.Shipping.ParcelWidthIn,
			HeightIn: cfg.Shipping.ParcelHeightIn,
		},
		RatePolicy: domainshipping.RatePolicy{
			PreferredCarrier:  cfg.Shipping.PreferredCarrier,
			PreferredServices: cfg.Shipping.PreferredServices,
		},
		FallbackSize:    cfg.Shipping.FallbackSize,
		IdempotencyTTL:  cfg.Checkout.IdempotencyTTL,
		FromAddress:     cfg.Mail.FromAddress,
		MerchantAddress: cfg.Mail.MerchantAddress,
		ReplyTo:         cfg.Mail.ReplyTo,
	})

	// HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	webhookHandler := handler.NewWebhookHandler(fulfillmentService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	// Non-POST hits on the webhook path must answer 405, not 404
	engine.HandleMethodNotAllowed = true

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Liveness endpoint outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("/session", checkoutHandler.CreateSession)
	checkoutRoutes.GET("/session", checkoutHandler.GetSession)

	webhookRoutes := router.NewDomainGroup("webhooks", "/webhooks")
	webhookRoutes.POST("/stripe", webhookHandler.HandleStripeWebhook)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(checkoutRoutes).
		Register(webhookRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newIdempotencyStore picks the store implementation for this
// deployment. With Redis disabled the in-memory store is used directly;
// with Redis enabled the factory still falls back to in-memory when the
// connection fails, trading cross-instance safety for availability.
func newIdempotencyStore(cfg *config.Config, log *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Redis.Enabled {
		log.Info("Using in-memory idempotency store")
		return cache.NewInMemoryIdempotencyStore(), nil
	}
	factory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	return factory.CreateStore()
}
