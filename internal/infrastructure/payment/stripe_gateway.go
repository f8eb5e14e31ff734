package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	domain "github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shared"
)

// StripeGateway implements domain/payment.Gateway on Stripe hosted
// checkout
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.InitStripeClient()

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateSession creates a hosted checkout session
func (g *StripeGateway) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.Session, error) {
	params := g.buildSessionParams(req)
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session", zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("session_id", sess.ID),
		zap.Int64("line_items", int64(len(req.Items))))

	return &domain.Session{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// buildSessionParams translates a gateway-neutral session request into
// Stripe params. Split out for testability; it performs no I/O.
func (g *StripeGateway) buildSessionParams(req domain.SessionRequest) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.config.Currency),
				UnitAmount: stripe.Int64(item.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	countries := req.AllowedCountries
	if len(countries) == 0 {
		countries = []string{"US"}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(g.config.SuccessURL),
		CancelURL:  stripe.String(g.config.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(countries),
		},
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		// Exactly one shipping option: the pre-resolved fee. Offering a
		// list would let the client pick a fee the server never computed.
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type:        stripe.String("fixed_amount"),
					DisplayName: stripe.String(req.Shipping.Label),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(req.Shipping.AmountCents),
						Currency: stripe.String(g.config.Currency),
					},
				},
			},
		},
	}

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if len(req.Metadata) > 0 {
		params.Metadata = req.Metadata
	}
	return params
}

// GetSession re-fetches the full session with the shipping rate
// expanded; the webhook event body is not guaranteed to carry the
// shipping-method display name or full totals.
func (g *StripeGateway) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("shipping_cost.shipping_rate")

	sess, err := session.Get(sessionID, params)
	if err != nil {
		g.logger.Error("Failed to retrieve Stripe checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to retrieve session %s: %w", sessionID, err)
	}
	return g.toDomainSession(sess), nil
}

func (g *StripeGateway) toDomainSession(sess *stripe.CheckoutSession) *domain.Session {
	out := &domain.Session{
		ID:                  sess.ID,
		URL:                 sess.URL,
		Status:              string(sess.Status),
		PaymentStatus:       string(sess.PaymentStatus),
		Currency:            string(sess.Currency),
		AmountSubtotalCents: sess.AmountSubtotal,
		AmountTotalCents:    sess.AmountTotal,
		Metadata:            sess.Metadata,
	}

	if sess.TotalDetails != nil {
		out.AmountShippingCents = sess.TotalDetails.AmountShipping
		out.AmountTaxCents = sess.TotalDetails.AmountTax
	}
	if sess.CustomerDetails != nil {
		out.CustomerName = sess.CustomerDetails.Name
		out.CustomerEmail = sess.CustomerDetails.Email
		out.CustomerPhone = sess.CustomerDetails.Phone
	}
	if sess.ShippingCost != nil && sess.ShippingCost.ShippingRate != nil {
		out.ShippingMethod = sess.ShippingCost.ShippingRate.DisplayName
	}
	if sd := sess.ShippingDetails; sd != nil && sd.Address != nil {
		out.ShippingAddress = shared.Address{
			Name:    sd.Name,
			Street1: sd.Address.Line1,
			Street2: sd.Address.Line2,
			City:    sd.Address.City,
			State:   sd.Address.State,
			Zip:     sd.Address.PostalCode,
			Country: sd.Address.Country,
		}
		if out.CustomerPhone != "" {
			out.ShippingAddress.Phone = out.CustomerPhone
		}
		if out.CustomerEmail != "" {
			out.ShippingAddress.Email = out.CustomerEmail
		}
	}
	return out
}

// ListLineItems returns the purchased line items for a session
func (g *StripeGateway) ListLineItems(ctx context.Context, sessionID string) ([]domain.SessionLineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx

	var items []domain.SessionLineItem
	iter := session.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		item := domain.SessionLineItem{
			Description:      li.Description,
			Quantity:         li.Quantity,
			AmountTotalCents: li.AmountTotal,
		}
		if li.Price != nil {
			item.UnitAmountCents = li.Price.UnitAmount
		}
		items = append(items, item)
	}
	if err := iter.Err(); err != nil {
		g.logger.Error("Failed to list Stripe line items",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to list line items for %s: %w", sessionID, err)
	}
	return items, nil
}

// VerifyEvent checks the webhook signature and parses the event. It
// fails closed: any verification error returns no event.
func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (*domain.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.config.WebhookSecret)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrSignatureInvalid.Code, err.Error())
	}

	out := &domain.Event{
		ID:   event.ID,
		Type: string(event.Type),
	}

	// Only checkout-session events carry a session object; other types
	// are acknowledged without a session id.
	if out.Type == domain.EventTypeCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: failed to unmarshal session from event %s: %w", event.ID, err)
		}
		out.SessionID = sess.ID
	}
	return out, nil
}
