package shipping

// Per-unit shipping weights in ounces by candle size category. These
// are estimates: jar glass dominates the weight, so the same jar size
// ships at the same weight regardless of scent.
const (
	weight8ozOz  = 13.0
	weight12ozOz = 19.0
	weight16ozOz = 25.0

	// Wax melts ship without a jar
	weightMeltOz = 3.5

	// Fallback for sizes the table does not know
	weightUnknownOz = 16.0

	// PackagingWeightOz is the box, void fill and label
	PackagingWeightOz = 6.0
)

// sizeWeights keys the normalized "<n> oz" size strings
var sizeWeights = map[string]float64{
	"8 oz":  weight8ozOz,
	"12 oz": weight12ozOz,
	"16 oz": weight16ozOz,
	"3 oz":  weightMeltOz,
}

// WeightItem is the minimal view of an order line the weight model
// needs
type WeightItem struct {
	Size     string
	Quantity int
}

// UnitWeightOz returns the per-unit estimated weight for a size
// category, falling back to an average for unknown sizes
func UnitWeightOz(size string) float64 {
	if w, ok := sizeWeights[size]; ok {
		return w
	}
	return weightUnknownOz
}

// EstimateWeightOz computes the estimated parcel weight: packaging
// constant plus per-line unit weight times quantity. Additive and
// deterministic, so item order never changes the result.
func EstimateWeightOz(items []WeightItem) float64 {
	total := PackagingWeightOz
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += UnitWeightOz(it.Size) * float64(qty)
	}
	return total
}
