package handler

import (
	checkoutapp "github.com/candleworks/backend/internal/application/checkout"
	"github.com/candleworks/backend/internal/domain/catalog"
	"github.com/candleworks/backend/internal/interfaces/http/dto"
	"github.com/candleworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles checkout-session API endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CreateSession handles POST /checkout/session. The request carries raw
// cart lines only; pricing and the shipping fee are resolved server-side
// and the response is the hosted-checkout redirect URL.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items := make([]catalog.CartItem, len(req.Cart))
	for i, it := range req.Cart {
		items[i] = catalog.CartItem{
			Scent:    it.ScentText(),
			Size:     it.Size,
			Quantity: it.Quantity,
		}
	}

	session, err := h.checkoutService.CreateSession(c.Request.Context(), checkoutapp.CreateSessionInput{
		Items:         items,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

// GetSession handles GET /checkout/session?session_id=..., the
// storefront's order status lookup
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		h.BadRequest(c, "session_id query parameter is required")
		return
	}

	detail, err := h.checkoutService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	session := detail.Session
	lines := make([]dto.SessionLineItemResponse, len(detail.Lines))
	for i, li := range detail.Lines {
		lines[i] = dto.SessionLineItemResponse{
			Description:      li.Description,
			Quantity:         li.Quantity,
			UnitAmountCents:  li.UnitAmountCents,
			AmountTotalCents: li.AmountTotalCents,
		}
	}

	resp := dto.SessionStatusResponse{
		SessionID:           session.ID,
		Status:              session.Status,
		PaymentStatus:       session.PaymentStatus,
		Currency:            session.Currency,
		AmountSubtotalCents: session.AmountSubtotalCents,
		AmountShippingCents: session.AmountShippingCents,
		AmountTaxCents:      session.AmountTaxCents,
		AmountTotalCents:    session.AmountTotalCents,
		CustomerName:        session.CustomerName,
		CustomerEmail:       session.CustomerEmail,
		ShippingMethod:      session.ShippingMethod,
		LineItems:           lines,
	}
	if !session.ShippingAddress.IsZero() {
		addr := session.ShippingAddress
		resp.ShippingAddress = &addr
	}

	h.Success(c, resp)
}
