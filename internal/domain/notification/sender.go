// Package notification defines the outbound email contract. The
// concrete provider client lives in infrastructure/mail.
package notification

import "context"

// Message is one outbound HTML email
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers messages through an email provider. Sends are
// independent and non-fatal to order processing.
type Sender interface {
	// Send delivers one message
	Send(ctx context.Context, msg Message) error

	// Enabled reports whether the sender is configured. An unconfigured
	// sender is a valid no-op state: callers report sends as skipped,
	// not failed.
	Enabled() bool
}
