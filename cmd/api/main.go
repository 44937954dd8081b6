package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-portfolio-backend/config"
	_ "go-portfolio-backend/docs" // Important for Swagger
	v1 "go-portfolio-backend/internal/delivery/http/v1"
	"go-portfolio-backend/internal/usecase"
	"go-portfolio-backend/pkg/email"
	"go-portfolio-backend/pkg/logger"
	"go-portfolio-backend/pkg/redis"
	"go-portfolio-backend/pkg/security"
	"go-portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form backend for the portfolio site.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	env := "development"
	if cfg.IsProduction() {
		env = "production"
		gin.SetMode(gin.ReleaseMode)
	}
	securityLogger := security.InitSecurityLogger("portfolio-backend", env)
	defer securityLogger.Sync()

	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "mail_provider", cfg.MailProvider)

	// 3. Setup Redis (optional, rate limiter store)
	var redisCheck func(ctx context.Context) error
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		} else {
			defer redis.Close()
		}
		redisCheck = redis.HealthCheck
	}

	// 4. Setup Email Sender
	fromAddress := email.FormatAddress(cfg.EmailFromName, cfg.EmailUser)
	sender, err := newSender(context.Background(), cfg)
	if err != nil {
		logger.Log.Error("Failed to create mail sender", "provider", cfg.MailProvider, "error", err)
		os.Exit(1)
	}
	if !sender.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact submissions will fail")
	}

	// 5. Setup UseCases
	validate := validation.New()
	contactUC := usecase.NewContactUsecase(sender, validate, usecase.ContactSettings{
		OwnerEmail:  cfg.ContactEmailTo,
		FromAddress: fromAddress,
		OwnerName:   cfg.SiteOwnerName,
		OwnerTitle:  cfg.SiteOwnerTitle,
	})
	healthUC := usecase.NewHealthUsecase(sender, redisCheck)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		SecurityLogger: securityLogger,
		Config:         cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Must outlast an SMTP session, whose dial and IO share SMTPTimeout
		WriteTimeout: cfg.SMTPTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// In-flight submissions get to finish their deliveries
	ctx, cancel := context.WithTimeout(context.Background(), cfg.SMTPTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// newSender picks the mail collaborator for MAIL_PROVIDER.
func newSender(ctx context.Context, cfg *config.Config) (email.Sender, error) {
	switch cfg.MailProvider {
	case config.MailProviderGmail:
		gmailSender, err := email.NewGmailSender(ctx, email.GmailConfig{
			CredentialsJSON: cfg.GmailCredentialsJSON,
			ClientID:        cfg.GmailClientID,
			ClientSecret:    cfg.GmailClientSecret,
			RefreshToken:    cfg.GmailRefreshToken,
			SenderAddress:   cfg.EmailUser,
		})
		if err != nil {
			// Keep serving; submissions fail until credentials are fixed
			logger.Log.Warn("Gmail sender unavailable", "error", err)
			return &email.GmailSender{}, nil
		}
		return gmailSender, nil
	case config.MailProviderSMTP, "":
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPassword,
			Timeout:  cfg.SMTPTimeout,
		}), nil
	default:
		return nil, errors.New("unknown MAIL_PROVIDER " + cfg.MailProvider)
	}
}
