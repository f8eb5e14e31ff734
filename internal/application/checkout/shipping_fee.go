package checkout

// FeeSchedule computes the single shipping fee attached to a checkout
// session. The fee is fully determined before session creation; the
// customer never picks between options.
type FeeSchedule struct {
	// FlatFeeCents, when > 0, replaces the tiered schedule
	FlatFeeCents int64

	// Tiered fees by total item quantity: 1 item, 2-3 items, 4+ items
	TierOneCents   int64
	TierTwoCents   int64
	TierThreeCents int64

	// FreeShippingThresholdCents zeroes the fee when the merchandise
	// subtotal meets or exceeds it. Zero disables the promotion.
	FreeShippingThresholdCents int64
}

// FeeCents returns the shipping fee for a cart. The free-shipping
// threshold compares against the merchandise subtotal only, before any
// shipping or tax.
func (s FeeSchedule) FeeCents(totalQuantity int, subtotalCents int64) int64 {
	if s.FreeShippingThresholdCents > 0 && subtotalCents >= s.FreeShippingThresholdCents {
		return 0
	}
	if s.FlatFeeCents > 0 {
		return s.FlatFeeCents
	}
	switch {
	case totalQuantity <= 1:
		return s.TierOneCents
	case totalQuantity <= 3:
		return s.TierTwoCents
	default:
		return s.TierThreeCents
	}
}

// Label returns the shipping option label shown on the hosted checkout
// page
func (s FeeSchedule) Label(feeCents int64) string {
	if feeCents == 0 {
		return "Free Shipping"
	}
	return "Standard Shipping"
}
