package shared

import "strings"

// Address is a postal address value object shared by the payment and
// shipping domains. All fields are plain strings; validation is the
// responsibility of the external processors that consume them.
type Address struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// IsZero reports whether the address carries no routable information
func (a Address) IsZero() bool {
	return a.Street1 == "" && a.City == "" && a.Zip == ""
}

// OneLine renders the address as a single human-readable line for
// logs and email bodies
func (a Address) OneLine() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Name, a.Street1, a.Street2, a.City, a.State, a.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
