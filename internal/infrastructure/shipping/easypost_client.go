package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/candleworks/backend/internal/domain/shipping"
	"github.com/candleworks/backend/internal/domain/shared"
)

// maxResponseSize is the maximum allowed response size from the
// EasyPost API (1MB)
const maxResponseSize = 1 << 20

// EasyPostClient implements domain/shipping.Carrier against the
// EasyPost REST API
type EasyPostClient struct {
	config     *EasyPostConfig
	httpClient *http.Client
	logger     *zap.Logger

	// insurance is the declared value sent with each purchase; empty
	// disables insurance
	insurance string
}

// NewEasyPostClient creates a new EasyPost client
func NewEasyPostClient(config *EasyPostConfig, logger *zap.Logger) (*EasyPostClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &EasyPostClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// CreateShipment registers a shipment and returns the candidate rates
// the API quoted. A shipment with zero rates fails with
// NoRatesAvailable.
func (c *EasyPostClient) CreateShipment(ctx context.Context, req domain.ShipmentRequest) (string, []domain.Rate, error) {
	body := epCreateShipmentRequest{
		Shipment: epShipmentParams{
			ToAddress:   toEPAddress(req.To),
			FromAddress: toEPAddress(req.From),
			Parcel: epParcel{
				Length: req.Parcel.LengthIn,
				Width:  req.Parcel.WidthIn,
				Height: req.Parcel.HeightIn,
				Weight: req.Parcel.WeightOz,
			},
			Reference: req.Reference,
		},
	}

	var shipment epShipment
	if err := c.do(ctx, http.MethodPost, "/shipments", body, &shipment); err != nil {
		return "", nil, err
	}

	rates, err := c.toDomainRates(shipment.Rates)
	if err != nil {
		return "", nil, err
	}
	if len(rates) == 0 {
		return "", nil, shared.NewDomainError(shared.ErrNoRatesAvailable.Code,
			fmt.Sprintf("no rates returned for shipment %s", shipment.ID))
	}

	c.logger.Debug("Created EasyPost shipment",
		zap.String("shipment_id", shipment.ID),
		zap.String("reference", req.Reference),
		zap.Int("rates", len(rates)))

	return shipment.ID, rates, nil
}

// BuyRate purchases a rate and returns the label and tracking
// artifacts. The tracker is created by EasyPost as part of the
// purchase; if the buy response omits it, the shipment is re-fetched
// and, failing that, a tracker is registered explicitly.
func (c *EasyPostClient) BuyRate(ctx context.Context, shipmentID, rateID string) (*domain.PurchasedLabel, error) {
	body := epBuyRequest{
		Rate:      epRateRef{ID: rateID},
		Insurance: c.insurance,
	}

	var shipment epShipment
	if err := c.do(ctx, http.MethodPost, "/shipments/"+shipmentID+"/buy", body, &shipment); err != nil {
		return nil, err
	}

	if shipment.PostageLabel == nil || shipment.Tracker == nil {
		// Some responses omit label/tracker fields until the purchase
		// settles; the retrieve endpoint returns the full object
		refreshed, err := c.GetShipment(ctx, shipmentID)
		if err == nil {
			shipment = *refreshed
		}
	}

	label := &domain.PurchasedLabel{}
	if shipment.SelectedRate != nil {
		price, err := decimal.NewFromString(shipment.SelectedRate.Rate)
		if err == nil {
			label.Rate = domain.Rate{
				ID:       shipment.SelectedRate.ID,
				Carrier:  shipment.SelectedRate.Carrier,
				Service:  shipment.SelectedRate.Service,
				Price:    price,
				Currency: shipment.SelectedRate.Currency,
			}
		}
	}
	if shipment.PostageLabel != nil {
		label.LabelURL = shipment.PostageLabel.LabelURL
		if label.LabelURL == "" {
			label.LabelURL = shipment.PostageLabel.LabelPDFURL
		}
	}

	switch {
	case shipment.Tracker != nil:
		label.TrackingCode = shipment.Tracker.TrackingCode
		label.TrackingURL = shipment.Tracker.PublicURL
	case shipment.TrackingCode != "":
		label.TrackingCode = shipment.TrackingCode
		tracker, err := c.CreateTracker(ctx, shipment.TrackingCode, label.Rate.Carrier)
		if err != nil {
			c.logger.Warn("Failed to create tracker after purchase",
				zap.String("shipment_id", shipmentID),
				zap.Error(err))
		} else {
			label.TrackingURL = tracker.PublicURL
		}
	}

	if label.TrackingCode == "" && label.LabelURL == "" {
		return nil, shared.NewDomainError(shared.ErrShippingProcessor.Code,
			fmt.Sprintf("purchase of shipment %s returned neither label nor tracking code", shipmentID))
	}

	c.logger.Info("Purchased shipping label",
		zap.String("shipment_id", shipmentID),
		zap.String("tracking_code", label.TrackingCode),
		zap.String("carrier", label.Rate.Carrier),
		zap.String("service", label.Rate.Service))

	return label, nil
}

// GetShipment retrieves a shipment by id
func (c *EasyPostClient) GetShipment(ctx context.Context, shipmentID string) (*epShipment, error) {
	var shipment epShipment
	if err := c.do(ctx, http.MethodGet, "/shipments/"+shipmentID, nil, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// CreateTracker registers a tracker for a tracking code
func (c *EasyPostClient) CreateTracker(ctx context.Context, trackingCode, carrier string) (*epTracker, error) {
	body := epCreateTrackerRequest{
		Tracker: epTrackerParams{
			TrackingCode: trackingCode,
			Carrier:      carrier,
		},
	}
	var tracker epTracker
	if err := c.do(ctx, http.MethodPost, "/trackers", body, &tracker); err != nil {
		return nil, err
	}
	return &tracker, nil
}

// SetInsurance sets the declared insurance amount attached to
// purchases. Empty disables insurance.
func (c *EasyPostClient) SetInsurance(amount string) {
	c.insurance = amount
}

// do executes one authenticated round-trip against the API and decodes
// the response into out. API-level errors are converted to
// ShippingProcessorError.
func (c *EasyPostClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("easypost: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("easypost: failed to build request: %w", err)
	}
	// EasyPost authenticates with the API key as basic-auth username
	req.SetBasicAuth(c.config.APIKey, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.NewDomainError(shared.ErrShippingProcessor.Code,
			fmt.Sprintf("request to %s failed: %v", path, err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return shared.NewDomainError(shared.ErrShippingProcessor.Code,
			fmt.Sprintf("failed to read response from %s: %v", path, err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr epError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return shared.NewDomainError(shared.ErrShippingProcessor.Code,
				fmt.Sprintf("%s returned %d: %s", path, resp.StatusCode, apiErr.Error.Message))
		}
		return shared.NewDomainError(shared.ErrShippingProcessor.Code,
			fmt.Sprintf("%s returned %d", path, resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return shared.NewDomainError(shared.ErrShippingProcessor.Code,
				fmt.Sprintf("failed to decode response from %s: %v", path, err))
		}
	}
	return nil
}

func toEPAddress(a shared.Address) epAddress {
	return epAddress{
		Name:    a.Name,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

// toDomainRates converts wire rates, skipping any with an unparseable
// price rather than failing the whole rate set
func (c *EasyPostClient) toDomainRates(rates []epRate) ([]domain.Rate, error) {
	out := make([]domain.Rate, 0, len(rates))
	for _, r := range rates {
		price, err := decimal.NewFromString(r.Rate)
		if err != nil {
			c.logger.Warn("Skipping rate with unparseable price",
				zap.String("rate_id", r.ID),
				zap.String("price", r.Rate))
			continue
		}
		out = append(out, domain.Rate{
			ID:       r.ID,
			Carrier:  r.Carrier,
			Service:  r.Service,
			Price:    price,
			Currency: r.Currency,
		})
	}
	return out, nil
}
