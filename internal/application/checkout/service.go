package checkout

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/candleworks/backend/internal/domain/catalog"
	"github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shared"
)

// Service creates hosted checkout sessions from raw carts. It owns the
// trust boundary: every price on the session comes from the catalog
// resolver, never from the client.
type Service struct {
	gateway          payment.Gateway
	resolver         *catalog.Resolver
	fees             FeeSchedule
	allowedCountries []string
	logger           *zap.Logger
}

// ServiceConfig contains configuration for Service
type ServiceConfig struct {
	Gateway          payment.Gateway
	Resolver         *catalog.Resolver
	Fees             FeeSchedule
	AllowedCountries []string
	Logger           *zap.Logger
}

// NewService creates a new checkout Service
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		gateway:          cfg.Gateway,
		resolver:         cfg.Resolver,
		fees:             cfg.Fees,
		allowedCountries: cfg.AllowedCountries,
		logger:           cfg.Logger,
	}
}

// CreateSessionInput is the application-level view of a checkout
// request
type CreateSessionInput struct {
	Items         []catalog.CartItem
	CustomerEmail string
}

// CreateSession normalizes and prices the cart, computes the shipping
// fee, and creates a hosted checkout session. Any unresolvable line
// fails the whole request; a partial cart is never priced.
func (s *Service) CreateSession(ctx context.Context, input CreateSessionInput) (*payment.Session, error) {
	if len(input.Items) == 0 {
		return nil, shared.ErrEmptyCart
	}

	normalized := make([]catalog.NormalizedItem, 0, len(input.Items))
	var subtotalCents int64
	totalQuantity := 0
	for _, raw := range input.Items {
		item, err := s.resolver.Resolve(raw)
		if err != nil {
			s.logger.Warn("Rejected cart line",
				zap.String("scent", raw.Scent),
				zap.String("size", raw.Size),
				zap.Int("qty", raw.Quantity),
				zap.Error(err))
			return nil, err
		}
		normalized = append(normalized, item)
		subtotalCents += item.LineTotalCents()
		totalQuantity += item.Quantity
	}

	feeCents := s.fees.FeeCents(totalQuantity, subtotalCents)

	metadata, err := s.buildMetadata(normalized, subtotalCents, feeCents)
	if err != nil {
		return nil, err
	}

	req := payment.SessionRequest{
		Items: toLineItemSpecs(normalized),
		Shipping: payment.ShippingOption{
			Label:       s.fees.Label(feeCents),
			AmountCents: feeCents,
		},
		CustomerEmail:    input.CustomerEmail,
		AllowedCountries: s.allowedCountries,
		Metadata:         metadata,
	}

	session, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created checkout session",
		zap.String("session_id", session.ID),
		zap.Int("lines", len(normalized)),
		zap.Int("total_quantity", totalQuantity),
		zap.Int64("subtotal_cents", subtotalCents),
		zap.Int64("shipping_cents", feeCents))

	return session, nil
}

// SessionDetail pairs a re-fetched session with its purchased lines,
// as shown on the order status page
type SessionDetail struct {
	Session *payment.Session
	Lines   []payment.SessionLineItem
}

// GetSession re-fetches a session and its line items by id, e.g. for
// an order status page
func (s *Service) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "session id is required")
	}
	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines, err := s.gateway.ListLineItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Lines: lines}, nil
}

// buildMetadata records the structured order lines plus the priced
// amounts on the session, so fulfillment can recover them without
// re-parsing display strings
func (s *Service) buildMetadata(items []catalog.NormalizedItem, subtotalCents, shippingCents int64) (map[string]string, error) {
	lines := make([]payment.MetadataItem, len(items))
	for i, it := range items {
		lines[i] = payment.MetadataItem{
			Scent: it.Scent,
			Size:  it.Size,
			Qty:   it.Quantity,
		}
	}
	encoded, err := payment.EncodeMetadataItems(lines)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		payment.MetadataItemsKey: encoded,
		"subtotal_cents":         strconv.FormatInt(subtotalCents, 10),
		"shipping_cents":         strconv.FormatInt(shippingCents, 10),
	}, nil
}

func toLineItemSpecs(items []catalog.NormalizedItem) []payment.LineItemSpec {
	specs := make([]payment.LineItemSpec, len(items))
	for i, it := range items {
		specs[i] = payment.LineItemSpec{
			Name:            it.DisplayName(),
			UnitAmountCents: it.UnitPriceCents,
			Quantity:        int64(it.Quantity),
		}
	}
	return specs
}
