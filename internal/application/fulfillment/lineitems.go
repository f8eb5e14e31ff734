package fulfillment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shipping"
)

// OrderLine is one purchased line with structured scent/size data
// joined back to the amounts the processor reports
type OrderLine struct {
	Scent            string
	Size             string
	Quantity         int64
	UnitAmountCents  int64
	AmountTotalCents int64
}

// DisplayName renders the line as shown to the customer
func (l OrderLine) DisplayName() string {
	return l.Scent + " • " + l.Size
}

// orderLines reconstructs the purchased lines for a session. Structured
// scent/size data comes from session metadata recorded at creation
// time; the processor's line items supply the amounts. Display-name
// parsing is the fallback for sessions created before metadata carried
// structured lines.
func (s *Service) orderLines(ctx context.Context, session *payment.Session) []OrderLine {
	lineItems, err := s.gateway.ListLineItems(ctx, session.ID)
	if err != nil {
		s.logger.Error("Failed to list session line items",
			zap.String("session_id", session.ID),
			zap.Error(err))
		lineItems = nil
	}

	metaItems, metaErr := payment.DecodeMetadataItems(session.Metadata[payment.MetadataItemsKey])
	if metaErr != nil {
		s.logger.Warn("Session metadata has no usable order lines, falling back to display names",
			zap.String("session_id", session.ID),
			zap.Error(metaErr))
	}

	// Metadata and line items were written from the same normalized cart,
	// so when both are present they correspond by index
	if len(metaItems) > 0 && len(metaItems) == len(lineItems) {
		lines := make([]OrderLine, len(metaItems))
		for i, m := range metaItems {
			lines[i] = OrderLine{
				Scent:            m.Scent,
				Size:             m.Size,
				Quantity:         lineItems[i].Quantity,
				UnitAmountCents:  lineItems[i].UnitAmountCents,
				AmountTotalCents: lineItems[i].AmountTotalCents,
			}
		}
		return lines
	}

	if len(lineItems) > 0 {
		lines := make([]OrderLine, len(lineItems))
		for i, li := range lineItems {
			scent, size := s.parseDisplayName(li.Description)
			lines[i] = OrderLine{
				Scent:            scent,
				Size:             size,
				Quantity:         li.Quantity,
				UnitAmountCents:  li.UnitAmountCents,
				AmountTotalCents: li.AmountTotalCents,
			}
		}
		return lines
	}

	// Last resort: metadata alone gives structure but no per-line amounts
	lines := make([]OrderLine, len(metaItems))
	for i, m := range metaItems {
		lines[i] = OrderLine{
			Scent:    m.Scent,
			Size:     m.Size,
			Quantity: int64(m.Qty),
		}
	}
	return lines
}

// parseDisplayName splits a "<scent> • <size>" line-item description.
// A description without the separator is treated as a bare scent with
// the configured fallback size.
func (s *Service) parseDisplayName(description string) (scent, size string) {
	parts := strings.SplitN(description, " • ", 2)
	if len(parts) == 2 && parts[1] != "" {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(description), s.fallbackSize
}

// weightItems projects order lines into the weight model's view
func weightItems(lines []OrderLine) []shipping.WeightItem {
	items := make([]shipping.WeightItem, len(lines))
	for i, l := range lines {
		items[i] = shipping.WeightItem{
			Size:     l.Size,
			Quantity: int(l.Quantity),
		}
	}
	return items
}
