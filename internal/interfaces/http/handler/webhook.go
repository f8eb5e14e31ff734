package handler

import (
	"io"
	"net/http"

	fulfillmentapp "github.com/candleworks/backend/internal/application/fulfillment"
	"github.com/candleworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// WebhookHandler handles payment-processor webhook endpoints.
// These endpoints are called by the processor and carry their own
// signature-based authentication.
type WebhookHandler struct {
	BaseHandler
	fulfillmentService *fulfillmentapp.Service
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(fulfillmentService *fulfillmentapp.Service) *WebhookHandler {
	return &WebhookHandler{
		fulfillmentService: fulfillmentService,
	}
}

// HandleStripeWebhook handles POST /webhooks/stripe.
//
// An unverifiable payload is rejected with 400 so the processor records
// the failed delivery. Once the signature verifies, the response is
// always 200: fulfillment failures are logged server-side and must not
// trigger redelivery of an order whose side effects may have partially
// run.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// The raw body is required for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.WebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	result, err := h.fulfillmentService.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		// Only signature verification surfaces as an error
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{
			Received: false,
			Message:  "Webhook signature verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Message:   result.Message,
	})
}
