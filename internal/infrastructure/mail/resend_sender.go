package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/candleworks/backend/internal/domain/notification"
	"github.com/candleworks/backend/internal/domain/shared"
)

// maxResponseSize is the maximum allowed response size from the email
// provider (64KB)
const maxResponseSize = 65536

// ResendSender implements domain/notification.Sender against the
// Resend REST API
type ResendSender struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewResendSender creates a new Resend sender. An incomplete config is
// not an error: the sender comes up disabled and reports it via
// Enabled.
func NewResendSender(config *Config, logger *zap.Logger) *ResendSender {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ResendSender{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Enabled reports whether the sender is configured
func (s *ResendSender) Enabled() bool {
	return s.config.Enabled()
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send delivers one message. Failures map to EmailProviderError; the
// caller decides whether that is fatal (it never is for order
// processing).
func (s *ResendSender) Send(ctx context.Context, msg notification.Message) error {
	if !s.Enabled() {
		return shared.NewDomainError(shared.ErrEmailProvider.Code, "email sender is not configured")
	}

	payload, err := json.Marshal(sendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("mail: failed to encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mail: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return shared.NewDomainError(shared.ErrEmailProvider.Code,
			fmt.Sprintf("send to %s failed: %v", msg.To, err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return shared.NewDomainError(shared.ErrEmailProvider.Code,
			fmt.Sprintf("provider returned %d for send to %s", resp.StatusCode, msg.To))
	}

	var out sendResponse
	_ = json.Unmarshal(data, &out)
	s.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("provider_id", out.ID))
	return nil
}
