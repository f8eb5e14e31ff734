package fulfillment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/candleworks/backend/internal/domain/notification"
	"github.com/candleworks/backend/internal/domain/payment"
	"github.com/candleworks/backend/internal/domain/shipping"
	"github.com/candleworks/backend/internal/infrastructure/mail"
)

// sendEmails delivers the merchant notification and the customer
// confirmation. Both are attempted regardless of the shipment outcome,
// and a failed send never fails order processing.
func (s *Service) sendEmails(ctx context.Context, session *payment.Session, lines []OrderLine, label *shipping.PurchasedLabel, shipErr error) {
	if !s.sender.Enabled() {
		s.logger.Info("Email sender not configured, skipping order notifications",
			zap.String("session_id", session.ID))
		return
	}

	data := composeOrderEmail(session, lines, label, shipErr)

	if html, err := mail.RenderMerchant(data); err != nil {
		s.logger.Error("Failed to render merchant email",
			zap.String("session_id", session.ID),
			zap.Error(err))
	} else if err := s.sender.Send(ctx, notification.Message{
		From:    s.fromAddress,
		To:      s.merchantAddress,
		Subject: fmt.Sprintf("New order %s (%s)", session.ID, mail.FormatCents(session.AmountTotalCents)),
		HTML:    html,
	}); err != nil {
		s.logger.Error("Failed to send merchant email",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}

	if session.CustomerEmail == "" {
		s.logger.Warn("Session has no customer email, skipping confirmation",
			zap.String("session_id", session.ID))
		return
	}

	if html, err := mail.RenderCustomer(data); err != nil {
		s.logger.Error("Failed to render customer email",
			zap.String("session_id", session.ID),
			zap.Error(err))
	} else if err := s.sender.Send(ctx, notification.Message{
		From:    s.fromAddress,
		To:      session.CustomerEmail,
		ReplyTo: s.replyTo,
		Subject: "Your Candleworks order is confirmed",
		HTML:    html,
	}); err != nil {
		s.logger.Error("Failed to send customer email",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}
}

// composeOrderEmail projects one completed session into the email view
func composeOrderEmail(session *payment.Session, lines []OrderLine, label *shipping.PurchasedLabel, shipErr error) mail.OrderEmail {
	items := make([]mail.OrderEmailItem, len(lines))
	for i, l := range lines {
		items[i] = mail.OrderEmailItem{
			Name:       l.DisplayName(),
			Quantity:   l.Quantity,
			UnitCents:  l.UnitAmountCents,
			TotalCents: l.AmountTotalCents,
		}
	}

	data := mail.OrderEmail{
		OrderID:        session.ID,
		Items:          items,
		SubtotalCents:  session.AmountSubtotalCents,
		ShippingCents:  session.AmountShippingCents,
		TaxCents:       session.AmountTaxCents,
		TotalCents:     session.AmountTotalCents,
		CustomerName:   session.CustomerName,
		CustomerEmail:  session.CustomerEmail,
		CustomerPhone:  session.CustomerPhone,
		ShippingMethod: session.ShippingMethod,
		AddressLines:   addressLines(session),
	}

	if label != nil {
		data.Shipped = true
		data.TrackingCode = label.TrackingCode
		data.TrackingURL = label.TrackingURL
		data.LabelURL = label.LabelURL
	} else if shipErr != nil {
		data.ShipmentError = shipErr.Error()
	}

	return data
}

func addressLines(session *payment.Session) []string {
	a := session.ShippingAddress
	if a.IsZero() {
		return nil
	}
	lines := make([]string, 0, 5)
	if a.Name != "" {
		lines = append(lines, a.Name)
	}
	lines = append(lines, a.Street1)
	if a.Street2 != "" {
		lines = append(lines, a.Street2)
	}
	lines = append(lines, fmt.Sprintf("%s, %s %s", a.City, a.State, a.Zip))
	if a.Country != "" {
		lines = append(lines, a.Country)
	}
	return lines
}
