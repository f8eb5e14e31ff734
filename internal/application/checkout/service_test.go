package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/candleworks/backend/internal/domain/catalog"
	"github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shared"
)

// =============================================================================
// Mock Gateway
// =============================================================================

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockGateway) GetSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockGateway) ListLineItems(ctx context.Context, sessionID string) ([]payment.SessionLineItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.SessionLineItem), args.Error(1)
}

func (m *MockGateway) VerifyEvent(payload []byte, signatureHeader string) (*payment.Event, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}

func newTestService(gateway *MockGateway) *Service {
	return NewService(ServiceConfig{
		Gateway:          gateway,
		Resolver:         catalog.NewResolver(catalog.DefaultPriceTable()),
		Fees:             defaultSchedule(),
		AllowedCountries: []string{"US"},
		Logger:           zap.NewNop(),
	})
}

func TestService_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty cart", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		_, err := svc.CreateSession(ctx, CreateSessionInput{})
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
		gateway.AssertNotCalled(t, "CreateSession")
	})

	t.Run("rejects whole cart on one bad line", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		_, err := svc.CreateSession(ctx, CreateSessionInput{
			Items: []catalog.CartItem{
				{Scent: "Lavender", Size: "12 oz", Quantity: 1},
				{Scent: "Oakmoss & Amber", Size: "8 oz", Quantity: 1}, // only sold in 12 oz
			},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrPriceNotFound.Code, domainErr.Code)
		gateway.AssertNotCalled(t, "CreateSession")
	})

	t.Run("prices cart server-side and attaches one shipping option", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		var captured payment.SessionRequest
		gateway.On("CreateSession", ctx, mock.MatchedBy(func(req payment.SessionRequest) bool {
			captured = req
			return true
		})).Return(&payment.Session{ID: "cs_test_123", URL: "https://checkout.example/cs_test_123"}, nil)

		session, err := svc.CreateSession(ctx, CreateSessionInput{
			Items: []catalog.CartItem{
				{Scent: "black raspberry vanilla bean", Size: "12oz", Quantity: 2},
				{Scent: "Apple Pie", Size: "8 oz", Quantity: 1},
			},
			CustomerEmail: "jo@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", session.ID)

		require.Len(t, captured.Items, 2)
		assert.Equal(t, "Black Raspberry • 12 oz", captured.Items[0].Name)
		assert.Equal(t, int64(1400), captured.Items[0].UnitAmountCents)
		assert.Equal(t, int64(2), captured.Items[0].Quantity)
		assert.Equal(t, "Apple Pie • 8 oz", captured.Items[1].Name)
		assert.Equal(t, int64(1000), captured.Items[1].UnitAmountCents)

		// 3 items total, subtotal $38.00 → tier-two fee
		assert.Equal(t, int64(895), captured.Shipping.AmountCents)
		assert.Equal(t, "Standard Shipping", captured.Shipping.Label)
		assert.Equal(t, "jo@example.com", captured.CustomerEmail)
		assert.Equal(t, []string{"US"}, captured.AllowedCountries)
	})

	t.Run("records structured order lines in metadata", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		var captured payment.SessionRequest
		gateway.On("CreateSession", ctx, mock.MatchedBy(func(req payment.SessionRequest) bool {
			captured = req
			return true
		})).Return(&payment.Session{ID: "cs_test_meta"}, nil)

		_, err := svc.CreateSession(ctx, CreateSessionInput{
			Items: []catalog.CartItem{
				{Scent: "Lavender", Size: "16 oz", Quantity: 3},
			},
		})
		require.NoError(t, err)

		items, err := payment.DecodeMetadataItems(captured.Metadata[payment.MetadataItemsKey])
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, payment.MetadataItem{Scent: "Lavender", Size: "16 oz", Qty: 3}, items[0])
		assert.Equal(t, "5400", captured.Metadata["subtotal_cents"])
		assert.Equal(t, "895", captured.Metadata["shipping_cents"])
	})

	t.Run("grants free shipping at the subtotal threshold", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		var captured payment.SessionRequest
		gateway.On("CreateSession", ctx, mock.MatchedBy(func(req payment.SessionRequest) bool {
			captured = req
			return true
		})).Return(&payment.Session{ID: "cs_test_free"}, nil)

		// 8 × $14.00 = $112.00 subtotal
		_, err := svc.CreateSession(ctx, CreateSessionInput{
			Items: []catalog.CartItem{
				{Scent: "Lavender", Size: "12 oz", Quantity: 8},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(0), captured.Shipping.AmountCents)
		assert.Equal(t, "Free Shipping", captured.Shipping.Label)
	})

	t.Run("propagates gateway failure", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		gateway.On("CreateSession", ctx, mock.Anything).
			Return(nil, shared.ErrUpstreamProcessor)

		_, err := svc.CreateSession(ctx, CreateSessionInput{
			Items: []catalog.CartItem{{Scent: "Lavender", Size: "8 oz", Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrUpstreamProcessor)
	})
}

func TestService_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session id", func(t *testing.T) {
		svc := newTestService(new(MockGateway))
		_, err := svc.GetSession(ctx, "")
		require.Error(t, err)
	})

	t.Run("returns the session with its lines", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		gateway.On("GetSession", ctx, "cs_test_123").
			Return(&payment.Session{ID: "cs_test_123", PaymentStatus: "paid"}, nil)
		gateway.On("ListLineItems", ctx, "cs_test_123").
			Return([]payment.SessionLineItem{
				{Description: "Lavender • 12 oz", Quantity: 2, UnitAmountCents: 1400, AmountTotalCents: 2800},
			}, nil)

		detail, err := svc.GetSession(ctx, "cs_test_123")
		require.NoError(t, err)
		assert.Equal(t, "paid", detail.Session.PaymentStatus)
		require.Len(t, detail.Lines, 1)
		assert.Equal(t, int64(2800), detail.Lines[0].AmountTotalCents)
	})

	t.Run("propagates line item fetch failure", func(t *testing.T) {
		gateway := new(MockGateway)
		svc := newTestService(gateway)

		gateway.On("GetSession", ctx, "cs_test_123").
			Return(&payment.Session{ID: "cs_test_123"}, nil)
		gateway.On("ListLineItems", ctx, "cs_test_123").
			Return(nil, shared.ErrUpstreamProcessor)

		_, err := svc.GetSession(ctx, "cs_test_123")
		assert.ErrorIs(t, err, shared.ErrUpstreamProcessor)
	})
}
