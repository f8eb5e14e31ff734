package shipping

import (
	"github.com/candleworks/backend/internal/domain/shared"
)

// RatePolicy selects which quoted rate to purchase.
//
// Selection is two-tier: filter to the preferred carrier and preferred
// economical service tiers, then take the numerically lowest price
// among matches. Only when nothing matches does selection fall back to
// the globally cheapest rate. Naively buying the overall-cheapest rate
// used to select expensive expedited services when the carrier listed
// them first among a narrow subset, so the filter-then-fallback order
// is a correctness fix, not an optimization.
type RatePolicy struct {
	PreferredCarrier  string
	PreferredServices []string
}

// DefaultRatePolicy prefers USPS ground-class services
func DefaultRatePolicy() RatePolicy {
	return RatePolicy{
		PreferredCarrier:  "USPS",
		PreferredServices: []string{"GroundAdvantage", "First", "ParcelSelect"},
	}
}

// Selection is the chosen rate plus whether the fallback path was used
type Selection struct {
	Rate         Rate
	UsedFallback bool
}

// Select applies the policy to a candidate rate set. An empty set fails
// with NoRatesAvailable.
func (p RatePolicy) Select(rates []Rate) (Selection, error) {
	if len(rates) == 0 {
		return Selection{}, shared.ErrNoRatesAvailable
	}

	preferred := make([]Rate, 0, len(rates))
	for _, r := range rates {
		if r.Carrier == p.PreferredCarrier && p.serviceMatches(r.Service) {
			preferred = append(preferred, r)
		}
	}

	if len(preferred) > 0 {
		return Selection{Rate: cheapest(preferred)}, nil
	}
	return Selection{Rate: cheapest(rates), UsedFallback: true}, nil
}

func (p RatePolicy) serviceMatches(service string) bool {
	if len(p.PreferredServices) == 0 {
		return true
	}
	for _, s := range p.PreferredServices {
		if s == service {
			return true
		}
	}
	return false
}

func cheapest(rates []Rate) Rate {
	best := rates[0]
	for _, r := range rates[1:] {
		if r.Price.LessThan(best.Price) {
			best = r
		}
	}
	return best
}
