package v1

import (
	"go-portfolio-backend/config"
	"go-portfolio-backend/internal/delivery/http/middleware"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/usecase"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       usecase.HealthUsecase
	SecurityLogger *security.SecurityLogger
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Global Middlewares
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.IsProduction()))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	var guards []gin.HandlerFunc
	if cfg.ContactRateLimitEnabled {
		guards = append(guards, middleware.RateLimitMiddleware(
			middleware.ContactRateLimitConfig(cfg.ContactRateLimit, cfg.RateWindow()),
		))
	}
	NewContactHandler(api, deps.ContactUC, deps.SecurityLogger, cfg.MaxBodySize, guards...)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		c.Error(apperror.NotFound("Not found"))
	})

	return r
}
