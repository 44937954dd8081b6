package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by senders that lack credentials.
var ErrNotConfigured = errors.New("email service is not configured")

// Sender is implemented by every mail provider (SMTP relay, Gmail API).
type Sender interface {
	// Send delivers a single message. It blocks until the provider accepts
	// or rejects it.
	Send(ctx context.Context, msg Message) error
	// IsConfigured reports whether the sender has the credentials it needs.
	IsConfigured() bool
}

// Message represents an email message to be sent.
type Message struct {
	From    string // RFC 5322 address, optionally "Name <addr>"
	To      string
	ReplyTo string
	Subject string
	HTML    string
}
