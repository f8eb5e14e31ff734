package fulfillment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/candleworks/backend/internal/domain/notification"
	"github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shared"
	"github.com/candleworks/backend/internal/domain/shipping"
)

// Service turns verified payment events into fulfilled orders: label
// purchase plus merchant and customer notifications. Processing is
// at-most-once per session; after signature verification every failure
// is logged and absorbed so the event source never retries a partially
// fulfilled order.
type Service struct {
	gateway payment.Gateway
	carrier shipping.Carrier
	sender  notification.Sender
	store   shared.IdempotencyStore
	logger  *zap.Logger

	origin         shared.Address
	parcel         shipping.Parcel
	ratePolicy     shipping.RatePolicy
	fallbackSize   string
	idempotencyTTL time.Duration

	fromAddress     string
	merchantAddress string
	replyTo         string
}

// ServiceConfig contains configuration for Service
type ServiceConfig struct {
	Gateway payment.Gateway
	Carrier shipping.Carrier
	Sender  notification.Sender
	Store   shared.IdempotencyStore
	Logger  *zap.Logger

	// Origin is the fixed ship-from address
	Origin shared.Address

	// Parcel carries the box dimensions; weight is estimated per order
	Parcel shipping.Parcel

	RatePolicy shipping.RatePolicy

	// FallbackSize is assumed for lines whose size cannot be recovered
	FallbackSize string

	// IdempotencyTTL bounds how long a processed session id is
	// remembered; it should cover the event source's redelivery window
	IdempotencyTTL time.Duration

	FromAddress     string
	MerchantAddress string
	ReplyTo         string
}

// NewService creates a new fulfillment Service
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &Service{
		gateway:         cfg.Gateway,
		carrier:         cfg.Carrier,
		sender:          cfg.Sender,
		store:           cfg.Store,
		logger:          cfg.Logger,
		origin:          cfg.Origin,
		parcel:          cfg.Parcel,
		ratePolicy:      cfg.RatePolicy,
		fallbackSize:    cfg.FallbackSize,
		idempotencyTTL:  ttl,
		fromAddress:     cfg.FromAddress,
		merchantAddress: cfg.MerchantAddress,
		replyTo:         cfg.ReplyTo,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and processes one raw webhook delivery.
//
// Verification failure is the only error returned to the caller; it
// must map to a rejection so a forged payload is never acknowledged.
// Everything after verification resolves to a nil error: an event we
// cannot fully process is acknowledged anyway, because redelivery
// would not make a half-fulfilled order safe to retry.
func (s *Service) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Error("Rejected webhook with invalid signature",
			zap.Error(err))
		return nil, err
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: event.Type,
	}

	if event.Type != payment.EventTypeCheckoutCompleted {
		s.logger.Debug("Ignoring webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		result.Message = "event type not handled"
		return result, nil
	}

	if event.SessionID == "" {
		s.logger.Warn("Completed-checkout event carries no session id",
			zap.String("event_id", event.ID))
		result.Message = "event has no session id"
		return result, nil
	}

	session, err := s.gateway.GetSession(ctx, event.SessionID)
	if err != nil {
		s.logger.Error("Failed to fetch session for completed checkout",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.SessionID),
			zap.Error(err))
		result.Message = "session fetch failed"
		return result, nil
	}

	isNew, err := s.store.MarkProcessed(ctx, session.ID, s.idempotencyTTL)
	if err != nil {
		// A broken store must not silently drop orders; process and risk
		// a duplicate rather than lose the sale
		s.logger.Error("Idempotency store unavailable, processing anyway",
			zap.String("session_id", session.ID),
			zap.Error(err))
	} else if !isNew {
		s.logger.Info("Skipping duplicate webhook delivery",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID))
		result.Message = "duplicate delivery"
		return result, nil
	}

	s.logger.Info("Processing completed checkout",
		zap.String("event_id", event.ID),
		zap.String("session_id", session.ID),
		zap.Int64("amount_total_cents", session.AmountTotalCents),
		zap.String("customer_email", session.CustomerEmail))

	lines := s.orderLines(ctx, session)

	label, shipErr := s.createShipment(ctx, session, lines)
	if shipErr != nil {
		s.logger.Error("Shipment creation failed, order requires manual label",
			zap.String("session_id", session.ID),
			zap.Error(shipErr))
	}

	s.sendEmails(ctx, session, lines, label, shipErr)

	result.Processed = true
	return result, nil
}

// createShipment estimates the parcel weight, shops rates and buys the
// selected one
func (s *Service) createShipment(ctx context.Context, session *payment.Session, lines []OrderLine) (*shipping.PurchasedLabel, error) {
	if session.ShippingAddress.IsZero() {
		return nil, shared.NewDomainError(shared.ErrShippingProcessor.Code,
			"session has no shipping address")
	}

	parcel := s.parcel
	parcel.WeightOz = shipping.EstimateWeightOz(weightItems(lines))

	shipmentID, rates, err := s.carrier.CreateShipment(ctx, shipping.ShipmentRequest{
		From:      s.origin,
		To:        session.ShippingAddress,
		Parcel:    parcel,
		Reference: session.ID,
	})
	if err != nil {
		return nil, err
	}

	selection, err := s.ratePolicy.Select(rates)
	if err != nil {
		return nil, err
	}
	if selection.UsedFallback {
		s.logger.Warn("No preferred rate quoted, buying cheapest overall",
			zap.String("session_id", session.ID),
			zap.String("carrier", selection.Rate.Carrier),
			zap.String("service", selection.Rate.Service),
			zap.String("price", selection.Rate.Price.String()))
	}

	label, err := s.carrier.BuyRate(ctx, shipmentID, selection.Rate.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchased shipping label for order",
		zap.String("session_id", session.ID),
		zap.String("tracking_code", label.TrackingCode),
		zap.String("carrier", label.Rate.Carrier),
		zap.String("service", label.Rate.Service),
		zap.Float64("weight_oz", parcel.WeightOz))

	return label, nil
}
