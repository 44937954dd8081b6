package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/email"
	"go-portfolio-backend/pkg/logger"
	"go-portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

var errOwnerNotConfigured = errors.New("owner address is not configured")

// ContactSettings holds the addresses and signature used for both emails.
type ContactSettings struct {
	OwnerEmail  string // receives the notification
	FromAddress string // From header for both messages
	OwnerName   string
	OwnerTitle  string
}

type contactUsecase struct {
	sender   email.Sender
	validate *validator.Validate
	settings ContactSettings
	now      func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(sender email.Sender, validate *validator.Validate, settings ContactSettings) domain.ContactUsecase {
	return newContactUsecase(sender, validate, settings, time.Now)
}

func newContactUsecase(sender email.Sender, validate *validator.Validate, settings ContactSettings, now func() time.Time) *contactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if settings.FromAddress == "" {
		settings.FromAddress = settings.OwnerEmail
	}
	return &contactUsecase{
		sender:   sender,
		validate: validate,
		settings: settings,
		now:      now,
	}
}

// Submit validates the submission and delivers the owner notification and
// the auto-reply concurrently. Both must succeed.
func (uc *contactUsecase) Submit(ctx context.Context, sub *domain.ContactSubmission) error {
	if sub == nil {
		return &domain.ValidationError{Reason: domain.ReasonMissingFields}
	}
	s := *sub
	s.Normalize()

	if err := uc.validate.Struct(s); err != nil {
		if reason, ok := validation.ClassifyContactErrors(err); ok {
			return &domain.ValidationError{Reason: reason}
		}
		logger.Log.Error("Unexpected contact validation failure",
			"error", err,
			"fields", validation.FormatValidationErrors(err),
			"request_id", requestIDFrom(ctx),
		)
		return &domain.DeliveryError{Cause: err}
	}

	if !uc.sender.IsConfigured() {
		return &domain.DeliveryError{Cause: email.ErrNotConfigured}
	}
	if uc.settings.OwnerEmail == "" {
		return &domain.DeliveryError{Cause: errOwnerNotConfigured}
	}

	notification, autoReply, err := uc.buildMessages(s)
	if err != nil {
		return &domain.DeliveryError{Cause: err}
	}

	// A client hanging up must not abort a delivery already in flight.
	sendCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.Go(func() error {
		if err := uc.sender.Send(sendCtx, notification); err != nil {
			return fmt.Errorf("owner notification: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := uc.sender.Send(sendCtx, autoReply); err != nil {
			return fmt.Errorf("auto-reply: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Failed to send contact emails",
			"error", err,
			"request_id", requestIDFrom(ctx),
		)
		return &domain.DeliveryError{Cause: err}
	}

	logger.Log.Info("Contact emails sent", "request_id", requestIDFrom(ctx))
	return nil
}

func (uc *contactUsecase) buildMessages(s domain.ContactSubmission) (email.Message, email.Message, error) {
	notificationHTML, err := email.RenderOwnerNotification(email.ContactEmailData{
		SenderName:  s.Name,
		SenderEmail: s.Email,
		Subject:     s.Subject,
		Message:     s.Message,
		SubmittedAt: uc.now(),
	})
	if err != nil {
		return email.Message{}, email.Message{}, err
	}

	autoReplyHTML, err := email.RenderAutoReply(email.AutoReplyData{
		Name:       s.Name,
		Subject:    s.Subject,
		OwnerName:  uc.settings.OwnerName,
		OwnerTitle: uc.settings.OwnerTitle,
	})
	if err != nil {
		return email.Message{}, email.Message{}, err
	}

	notification := email.Message{
		From:    uc.settings.FromAddress,
		To:      uc.settings.OwnerEmail,
		ReplyTo: s.Email,
		Subject: email.OwnerNotificationSubject(s.Subject),
		HTML:    notificationHTML,
	}
	autoReply := email.Message{
		From:    uc.settings.FromAddress,
		To:      s.Email,
		Subject: email.AutoReplySubject(uc.settings.OwnerName),
		HTML:    autoReplyHTML,
	}
	return notification, autoReply, nil
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
