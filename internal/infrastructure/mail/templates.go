package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderEmail is the data rendered into the merchant and customer
// templates. Amounts arrive as integer cents and are formatted here.
type OrderEmail struct {
	OrderID       string
	Items         []OrderEmailItem
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingMethod string
	AddressLines   []string

	// Shipment outcome. When Shipped is false the merchant template
	// renders a failure notice instead of tracking links; the customer
	// template simply omits tracking.
	Shipped       bool
	TrackingCode  string
	TrackingURL   string
	LabelURL      string
	ShipmentError string
}

// FormatCents renders integer cents as a dollar string, e.g. 1234 →
// "$12.34"
func FormatCents(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

var templateFuncs = template.FuncMap{
	"usd": FormatCents,
}

var merchantTemplate = template.Must(template.New("merchant").Funcs(templateFuncs).Parse(`
<h2>New order {{.OrderID}}</h2>
<p><strong>Customer:</strong> {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;{{if .CustomerPhone}}, {{.CustomerPhone}}{{end}}</p>
<table border="1" cellpadding="6" cellspacing="0">
  <tr><th>Item</th><th>Qty</th><th>Unit</th><th>Total</th></tr>
  {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{usd .UnitCents}}</td><td>{{usd .TotalCents}}</td></tr>
  {{end}}
</table>
<p>
  Subtotal: {{usd .SubtotalCents}}<br>
  Shipping ({{.ShippingMethod}}): {{usd .ShippingCents}}<br>
  Tax: {{usd .TaxCents}}<br>
  <strong>Total: {{usd .TotalCents}}</strong>
</p>
<p><strong>Ship to:</strong><br>{{range .AddressLines}}{{.}}<br>{{end}}</p>
{{if .Shipped}}
<p>
  Tracking: <a href="{{.TrackingURL}}">{{.TrackingCode}}</a><br>
  Label: <a href="{{.LabelURL}}">print label</a>
</p>
{{else}}
<p style="color:#b00">
  <strong>Label creation failed.</strong> Create the shipping label manually.<br>
  {{if .ShipmentError}}Reason: {{.ShipmentError}}{{end}}
</p>
{{end}}
`))

var customerTemplate = template.Must(template.New("customer").Funcs(templateFuncs).Parse(`
<h2>Thanks for your order!</h2>
<p>Order {{.OrderID}} is confirmed.</p>
<table border="1" cellpadding="6" cellspacing="0">
  <tr><th>Item</th><th>Qty</th><th>Unit</th><th>Total</th></tr>
  {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{usd .UnitCents}}</td><td>{{usd .TotalCents}}</td></tr>
  {{end}}
</table>
<p>
  Subtotal: {{usd .SubtotalCents}}<br>
  Shipping: {{usd .ShippingCents}}<br>
  Tax: {{usd .TaxCents}}<br>
  <strong>Total: {{usd .TotalCents}}</strong>
</p>
<p><strong>Shipping to:</strong><br>{{range .AddressLines}}{{.}}<br>{{end}}</p>
{{if .TrackingCode}}
<p>Track your package: <a href="{{.TrackingURL}}">{{.TrackingCode}}</a></p>
{{else}}
<p>We'll send tracking information as soon as your order ships.</p>
{{end}}
`))

// OrderEmailItem is one line in the itemized table
type OrderEmailItem struct {
	Name       string
	Quantity   int64
	UnitCents  int64
	TotalCents int64
}

// RenderMerchant renders the merchant notification body
func RenderMerchant(data OrderEmail) (string, error) {
	var buf strings.Builder
	if err := merchantTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: failed to render merchant template: %w", err)
	}
	return buf.String(), nil
}

// RenderCustomer renders the customer confirmation body. The template
// deliberately omits internal diagnostics: no error messages, no
// identifiers beyond the order id.
func RenderCustomer(data OrderEmail) (string, error) {
	var buf strings.Builder
	if err := customerTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: failed to render customer template: %w", err)
	}
	return buf.String(), nil
}
