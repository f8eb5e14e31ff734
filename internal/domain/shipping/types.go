package shipping

import (
	"context"

	"github.com/candleworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Parcel is the fixed box every order ships in. One box size fits all
// orders; this is a deliberate simplification.
type Parcel struct {
	LengthIn float64 `json:"length"`
	WidthIn  float64 `json:"width"`
	HeightIn float64 `json:"height"`
	WeightOz float64 `json:"weight"`
}

// ShipmentRequest describes one outbound shipment. Weight is an
// estimate computed from cart contents, not a measured weight.
type ShipmentRequest struct {
	From   shared.Address
	To     shared.Address
	Parcel Parcel
	// Reference carries the checkout session id so the shipment can be
	// traced back to its order
	Reference string
}

// Rate is one carrier/service/price quote for a shipment. Immutable
// once returned by the carrier-rate API. Price stays a decimal because
// carrier APIs quote decimal strings.
type Rate struct {
	ID       string
	Carrier  string
	Service  string
	Price    decimal.Decimal
	Currency string
}

// PurchasedLabel is the outcome of buying a rate: the printable label
// plus tracking artifacts
type PurchasedLabel struct {
	TrackingCode string
	TrackingURL  string
	LabelURL     string
	Rate         Rate
}

// Carrier abstracts the shipping processor (rate shop + label
// purchase). The concrete implementation lives in
// infrastructure/shipping (EasyPost).
type Carrier interface {
	// CreateShipment registers a shipment and returns its id plus the
	// candidate rates the processor quoted for it
	CreateShipment(ctx context.Context, req ShipmentRequest) (shipmentID string, rates []Rate, err error)

	// BuyRate purchases the given rate for a shipment and returns the
	// label and tracking artifacts
	BuyRate(ctx context.Context, shipmentID, rateID string) (*PurchasedLabel, error)
}
