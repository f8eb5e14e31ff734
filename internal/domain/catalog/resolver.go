package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/candleworks/backend/internal/domain/shared"
)

// PriceTable maps catalog keys ("<scent>|<size>") to unit prices in
// integer cents. The table is read-only after construction; lookup is a
// pure function of the key.
type PriceTable map[string]int64

// DefaultPriceTable returns the static price table exported from the
// merchant's product spreadsheet
func DefaultPriceTable() PriceTable {
	return PriceTable{
		"Black Raspberry|8 oz":    1000,
		"Black Raspberry|12 oz":   1400,
		"Apple Pie|8 oz":          1000,
		"Apple Pie|12 oz":         1400,
		"Lavender|8 oz":           1000,
		"Lavender|12 oz":          1400,
		"Lavender|16 oz":          1800,
		"Vanilla Bean|8 oz":       1000,
		"Vanilla Bean|12 oz":      1400,
		"Sea Salt & Orchid|8 oz":  1100,
		"Sea Salt & Orchid|12 oz": 1500,
		"Fresh Linen|8 oz":        1000,
		"Fresh Linen|12 oz":       1400,
		"Pumpkin Spice|8 oz":      1000,
		"Pumpkin Spice|12 oz":     1400,
		"Cinnamon Stick|8 oz":     1000,
		"Cinnamon Stick|12 oz":    1400,
		"Eucalyptus Mint|8 oz":    1100,
		"Eucalyptus Mint|12 oz":   1500,
		"Oakmoss & Amber|12 oz":   1500,
		"Black Raspberry|3 oz":    600,
		"Apple Pie|3 oz":          600,
		"Lavender|3 oz":           600,
		"Pumpkin Spice|3 oz":      600,
	}
}

// Resolver maps raw cart lines to priced NormalizedItems.
//
// By default the resolver is permissive: scent text without an alias
// entry passes through as typed, and the price table is the only gate
// (an unknown combination still fails with PriceNotFound). Setting
// AllowedScents switches to allow-list mode, rejecting scents outside
// the known set before any price lookup.
type Resolver struct {
	prices PriceTable

	// AllowedScents, when non-empty, restricts accepted canonical
	// scents. Empty means permissive.
	allowedScents map[string]struct{}
}

// NewResolver creates a resolver over the given price table
func NewResolver(prices PriceTable) *Resolver {
	return &Resolver{prices: prices}
}

// SetAllowedScents enables allow-list mode with the given canonical
// scent names. Passing an empty slice restores permissive mode.
func (r *Resolver) SetAllowedScents(scents []string) {
	if len(scents) == 0 {
		r.allowedScents = nil
		return
	}
	r.allowedScents = make(map[string]struct{}, len(scents))
	for _, s := range scents {
		r.allowedScents[s] = struct{}{}
	}
}

// Resolve normalizes one cart line and resolves its server-trusted
// unit price. The whole request fails if the catalog key is unknown.
func (r *Resolver) Resolve(item CartItem) (NormalizedItem, error) {
	scent := NormalizeScent(item.Scent)
	if scent == "" {
		return NormalizedItem{}, shared.NewDomainError(shared.ErrInvalidCartItem.Code,
			"scent is required")
	}

	if r.allowedScents != nil {
		if _, ok := r.allowedScents[scent]; !ok {
			return NormalizedItem{}, shared.NewDomainError(shared.ErrScentNotAllowed.Code,
				fmt.Sprintf("scent %q is not in the allowed catalog", scent))
		}
	}

	size, err := NormalizeSize(item.Size)
	if err != nil {
		return NormalizedItem{}, err
	}

	if err := CheckQuantity(item.Quantity); err != nil {
		return NormalizedItem{}, err
	}

	key := Key(scent, size)
	price, ok := r.prices[key]
	if !ok {
		return NormalizedItem{}, shared.NewDomainError(shared.ErrPriceNotFound.Code,
			r.priceNotFoundMessage(scent, size))
	}

	return NormalizedItem{
		Scent:          scent,
		Size:           size,
		Quantity:       item.Quantity,
		UnitPriceCents: price,
		CatalogKey:     key,
	}, nil
}

// priceNotFoundMessage lists sibling sizes for the scent when any
// exist. This aids debugging of stale storefront data; correctness does
// not depend on it.
func (r *Resolver) priceNotFoundMessage(scent, size string) string {
	var siblings []string
	prefix := scent + "|"
	for key := range r.prices {
		if strings.HasPrefix(key, prefix) {
			siblings = append(siblings, strings.TrimPrefix(key, prefix))
		}
	}
	if len(siblings) == 0 {
		return fmt.Sprintf("no price for %q in size %q", scent, size)
	}
	sort.Strings(siblings)
	return fmt.Sprintf("no price for %q in size %q (available sizes: %s)",
		scent, size, strings.Join(siblings, ", "))
}
