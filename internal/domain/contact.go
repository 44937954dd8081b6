package domain

import (
	"context"
	"strings"
)

// Client-facing messages for the contact endpoint.
const (
	MsgContactSent     = "Message sent successfully!"
	MsgMissingFields   = "All fields are required"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgDeliveryFailed  = "Failed to send message. Please try again later."
	MsgTooManyMessages = "Too many messages. Please try again later."
)

// ContactSubmission represents a contact form submission. It is never persisted.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contact_email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Normalize trims surrounding whitespace from the free-text fields. Email is
// only cleared when blank so the shape check still sees stray spaces.
func (s *ContactSubmission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	if strings.TrimSpace(s.Email) == "" {
		s.Email = ""
	}
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
}

// ValidationReason identifies which validation step rejected a submission.
type ValidationReason string

const (
	ReasonMissingFields ValidationReason = "missing_fields"
	ReasonInvalidEmail  ValidationReason = "invalid_email"
)

// ValidationError is a client-caused rejection. Its message is safe to return.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonInvalidEmail {
		return MsgInvalidEmail
	}
	return MsgMissingFields
}

// DeliveryError wraps a failure of the mail collaborator. Cause is for operators only.
type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	if e.Cause == nil {
		return "contact delivery failed"
	}
	return "contact delivery failed: " + e.Cause.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates the submission and sends the owner notification and
	// auto-reply. It returns *ValidationError or *DeliveryError on failure.
	Submit(ctx context.Context, sub *ContactSubmission) error
}
