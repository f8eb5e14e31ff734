package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shared"
)

func TestService_OrderLines_PrefersMetadata(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := paidSession()

	f.gateway.On("ListLineItems", ctx, session.ID).Return(paidLineItems(), nil)

	lines := f.service.orderLines(ctx, session)
	require.Len(t, lines, 2)

	assert.Equal(t, "Black Raspberry", lines[0].Scent)
	assert.Equal(t, "12 oz", lines[0].Size)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, int64(1400), lines[0].UnitAmountCents)
	assert.Equal(t, int64(2800), lines[0].AmountTotalCents)
}

func TestService_OrderLines_FallsBackToDisplayNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := paidSession()
	// A session created before metadata carried structured lines
	session.Metadata = nil

	f.gateway.On("ListLineItems", ctx, session.ID).Return([]payment.SessionLineItem{
		{Description: "Pumpkin Spice • 8 oz", Quantity: 1, UnitAmountCents: 1000, AmountTotalCents: 1000},
		{Description: "Seasonal Sampler", Quantity: 1, UnitAmountCents: 2000, AmountTotalCents: 2000},
	}, nil)

	lines := f.service.orderLines(ctx, session)
	require.Len(t, lines, 2)

	assert.Equal(t, "Pumpkin Spice", lines[0].Scent)
	assert.Equal(t, "8 oz", lines[0].Size)

	// Unparseable description keeps its text and assumes the fallback size
	assert.Equal(t, "Seasonal Sampler", lines[1].Scent)
	assert.Equal(t, "12 oz", lines[1].Size)
}

func TestService_OrderLines_MetadataOnlyWhenLineItemsUnavailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := paidSession()

	f.gateway.On("ListLineItems", ctx, session.ID).
		Return(nil, shared.ErrUpstreamProcessor)

	lines := f.service.orderLines(ctx, session)
	require.Len(t, lines, 2)

	assert.Equal(t, "Black Raspberry", lines[0].Scent)
	assert.Equal(t, int64(2), lines[0].Quantity)
	// Amounts are unknown without line items
	assert.Equal(t, int64(0), lines[0].UnitAmountCents)
}
