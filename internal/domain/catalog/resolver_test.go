package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candleworks/backend/internal/domain/shared"
)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func TestResolverResolve(t *testing.T) {
	r := NewResolver(DefaultPriceTable())

	t.Run("resolves canonical line", func(t *testing.T) {
		item, err := r.Resolve(CartItem{Scent: "Lavender", Size: "12 oz", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "Lavender", item.Scent)
		assert.Equal(t, "12 oz", item.Size)
		assert.Equal(t, int64(1400), item.UnitPriceCents)
		assert.Equal(t, "Lavender|12 oz", item.CatalogKey)
		assert.Equal(t, int64(2800), item.LineTotalCents())
	})

	t.Run("normalizes drifted storefront text", func(t *testing.T) {
		item, err := r.Resolve(CartItem{Scent: "black raspberry vanilla bean", Size: "12oz", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "Black Raspberry", item.Scent)
		assert.Equal(t, "12 oz", item.Size)
		assert.Equal(t, int64(1400), item.UnitPriceCents)
	})

	t.Run("empty scent is rejected", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "  ", Size: "12 oz", Quantity: 1})
		assert.Equal(t, shared.ErrInvalidCartItem.Code, domainCode(t, err))
	})

	t.Run("unknown size for a known scent names the siblings", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "Oakmoss & Amber", Size: "8 oz", Quantity: 1})
		assert.Equal(t, shared.ErrPriceNotFound.Code, domainCode(t, err))
		assert.Contains(t, err.Error(), "12 oz")
	})

	t.Run("unknown scent fails on price lookup", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "Birchwood Ember", Size: "12 oz", Quantity: 1})
		assert.Equal(t, shared.ErrPriceNotFound.Code, domainCode(t, err))
	})

	t.Run("quantity above cap", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "Lavender", Size: "12 oz", Quantity: 11})
		assert.Equal(t, shared.ErrQuantityExceeded.Code, domainCode(t, err))
	})

	t.Run("size without numeric token", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "Lavender", Size: "jumbo", Quantity: 1})
		assert.Equal(t, shared.ErrInvalidCartItem.Code, domainCode(t, err))
	})
}

func TestResolverAllowList(t *testing.T) {
	r := NewResolver(DefaultPriceTable())
	r.SetAllowedScents([]string{"Lavender", "Apple Pie"})

	t.Run("allowed scent resolves", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "lavender", Size: "8 oz", Quantity: 1})
		assert.NoError(t, err)
	})

	t.Run("priced but unlisted scent is rejected", func(t *testing.T) {
		_, err := r.Resolve(CartItem{Scent: "Pumpkin Spice", Size: "8 oz", Quantity: 1})
		assert.Equal(t, shared.ErrScentNotAllowed.Code, domainCode(t, err))
	})

	t.Run("empty slice restores permissive mode", func(t *testing.T) {
		r.SetAllowedScents(nil)
		_, err := r.Resolve(CartItem{Scent: "Pumpkin Spice", Size: "8 oz", Quantity: 1})
		assert.NoError(t, err)
	})
}
