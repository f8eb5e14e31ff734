package shipping

// Wire types for the EasyPost REST API. Only the fields this service
// reads or writes are modeled.

type epAddress struct {
	Name    string `json:"name,omitempty"`
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type epParcel struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// Weight is in ounces
	Weight float64 `json:"weight"`
}

type epRate struct {
	ID       string `json:"id"`
	Carrier  string `json:"carrier"`
	Service  string `json:"service"`
	Rate     string `json:"rate"`
	Currency string `json:"currency"`
}

type epPostageLabel struct {
	LabelURL    string `json:"label_url"`
	LabelPDFURL string `json:"label_pdf_url"`
}

type epTracker struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
	PublicURL    string `json:"public_url"`
}

type epShipment struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	Rates        []epRate        `json:"rates"`
	SelectedRate *epRate         `json:"selected_rate"`
	PostageLabel *epPostageLabel `json:"postage_label"`
	Tracker      *epTracker      `json:"tracker"`
	TrackingCode string          `json:"tracking_code"`
}

type epCreateShipmentRequest struct {
	Shipment epShipmentParams `json:"shipment"`
}

type epShipmentParams struct {
	ToAddress   epAddress `json:"to_address"`
	FromAddress epAddress `json:"from_address"`
	Parcel      epParcel  `json:"parcel"`
	Reference   string    `json:"reference,omitempty"`
}

type epBuyRequest struct {
	Rate      epRateRef `json:"rate"`
	Insurance string    `json:"insurance,omitempty"`
}

type epRateRef struct {
	ID string `json:"id"`
}

type epCreateTrackerRequest struct {
	Tracker epTrackerParams `json:"tracker"`
}

type epTrackerParams struct {
	TrackingCode string `json:"tracking_code"`
	Carrier      string `json:"carrier,omitempty"`
}

type epError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
