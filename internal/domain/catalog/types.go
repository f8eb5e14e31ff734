package catalog

import "fmt"

// CartItem is one raw, client-supplied cart line. Nothing in it is
// trusted: scent and size are free text and the price is never taken
// from the client at all.
type CartItem struct {
	Scent    string `json:"scent"`
	Size     string `json:"size"`
	Quantity int    `json:"qty"`
}

// NormalizedItem is a cart line after normalization and price
// resolution. It only exists for the duration of one
// checkout-session-creation call.
type NormalizedItem struct {
	Scent          string `json:"scent"`
	Size           string `json:"size"`
	Quantity       int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CatalogKey     string `json:"catalog_key"`
}

// DisplayName renders the line-item name shown on the hosted checkout
// page, e.g. "Black Raspberry • 12 oz"
func (n NormalizedItem) DisplayName() string {
	return fmt.Sprintf("%s • %s", n.Scent, n.Size)
}

// LineTotalCents returns quantity times unit price
func (n NormalizedItem) LineTotalCents() int64 {
	return n.UnitPriceCents * int64(n.Quantity)
}

// Key builds the composite catalog key used for price lookup
func Key(scent, size string) string {
	return scent + "|" + size
}
