package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/candleworks/backend/internal/domain/shared"
)

// MaxQuantityPerLine is the per-line quantity cap enforced at
// checkout-session creation
const MaxQuantityPerLine = 10

var (
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	sizeNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// scentAliases maps normalized (lowercased, punctuation-stripped) scent
// text to its canonical catalog form. Product feeds and the storefront
// have drifted over the years; this table absorbs the known variants.
var scentAliases = map[string]string{
	"black raspberry":              "Black Raspberry",
	"black raspberry vanilla":      "Black Raspberry",
	"black raspberry vanilla bean": "Black Raspberry",
	"apple pie":                    "Apple Pie",
	"warm apple pie":               "Apple Pie",
	"lavender":                     "Lavender",
	"french lavender":              "Lavender",
	"lavender fields":              "Lavender",
	"vanilla bean":                 "Vanilla Bean",
	"vanilla":                      "Vanilla Bean",
	"sea salt and orchid":          "Sea Salt & Orchid",
	"sea salt orchid":              "Sea Salt & Orchid",
	"fresh linen":                  "Fresh Linen",
	"clean linen":                  "Fresh Linen",
	"pumpkin spice":                "Pumpkin Spice",
	"pumpkin spice latte":          "Pumpkin Spice",
	"cinnamon stick":               "Cinnamon Stick",
	"cinnamon":                     "Cinnamon Stick",
	"eucalyptus mint":              "Eucalyptus Mint",
	"eucalyptus and mint":          "Eucalyptus Mint",
	"oakmoss amber":                "Oakmoss & Amber",
	"oakmoss and amber":            "Oakmoss & Amber",
}

// NormalizeScent canonicalizes raw scent text: lowercase, strip
// punctuation and dashes, collapse whitespace, then alias lookup.
// Text without an alias entry passes through as its trimmed
// original-case form, so new scents can be sold before the table
// catches up. Normalizing an already-canonical scent returns it
// unchanged.
func NormalizeScent(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	folded := strings.ToLower(trimmed)
	folded = punctRe.ReplaceAllString(folded, " ")
	folded = whitespaceRe.ReplaceAllString(folded, " ")
	folded = strings.TrimSpace(folded)

	if canonical, ok := scentAliases[folded]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeSize extracts the first numeric token from raw size text and
// formats it as "<number> oz". Text with no numeric token fails with
// InvalidCartItem.
func NormalizeSize(raw string) (string, error) {
	m := sizeNumberRe.FindString(raw)
	if m == "" {
		return "", shared.NewDomainError(shared.ErrInvalidCartItem.Code,
			fmt.Sprintf("size %q contains no numeric token", strings.TrimSpace(raw)))
	}
	// Drop a trailing ".0" so "12.0oz" and "12 oz" share a catalog key
	m = strings.TrimSuffix(m, ".0")
	return m + " oz", nil
}

// CheckQuantity coerces and bounds a line quantity. Zero or negative
// quantities are invalid; quantities above MaxQuantityPerLine fail with
// QuantityExceeded.
func CheckQuantity(qty int) error {
	if qty < 1 {
		return shared.NewDomainError(shared.ErrInvalidCartItem.Code,
			fmt.Sprintf("quantity must be at least 1, got %d", qty))
	}
	if qty > MaxQuantityPerLine {
		return shared.NewDomainError(shared.ErrQuantityExceeded.Code,
			fmt.Sprintf("quantity %d exceeds the limit of %d per item", qty, MaxQuantityPerLine))
	}
	return nil
}
