package usecase

import (
	"context"

	"go-portfolio-backend/pkg/email"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	sender     email.Sender
	redisCheck func(ctx context.Context) error
}

// NewHealthUsecase reports on the mail sender and, when redisCheck is set, Redis.
func NewHealthUsecase(sender email.Sender, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{
		sender:     sender,
		redisCheck: redisCheck,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{
		"status": "ok",
		"mail":   "configured",
		"redis":  "disabled",
	}

	if u.sender == nil || !u.sender.IsConfigured() {
		result["mail"] = "not_configured"
		result["status"] = "degraded"
	}

	if u.redisCheck != nil {
		if err := u.redisCheck(ctx); err != nil {
			// Limiter falls back to memory, so this does not degrade the service
			result["redis"] = "unavailable"
		} else {
			result["redis"] = "connected"
		}
	}

	return result
}
