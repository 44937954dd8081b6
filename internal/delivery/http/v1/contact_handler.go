package v1

import (
	"errors"
	"net/http"

	"go-portfolio-backend/internal/delivery/http/middleware"
	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC   domain.ContactUsecase
	audit       *security.SecurityLogger
	maxBodySize int64
}

// NewContactHandler registers the contact routes (public, no auth required).
// Extra handlers such as a rate limiter run before SubmitContact.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, audit *security.SecurityLogger, maxBodySize int64, guards ...gin.HandlerFunc) {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	handler := &ContactHandler{
		contactUC:   contactUC,
		audit:       audit,
		maxBodySize: maxBodySize,
	}

	handlers := append(guards, handler.SubmitContact)
	public.POST("/contact", handlers...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Emails the site owner and sends the visitor an auto-reply. This is a public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	if h.maxBodySize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}

	// binding tags are absent, so gin only decodes; the usecase validates.
	// An unreadable body is treated like any other unexpected failure.
	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Internal(domain.MsgDeliveryFailed, err))
		return
	}

	ctx := c.Request.Context()
	requestID := middleware.GetRequestID(c)

	err := h.contactUC.Submit(ctx, &req)

	var validationErr *domain.ValidationError
	var deliveryErr *domain.DeliveryError
	switch {
	case err == nil:
		h.audit.LogSubmissionAccepted(ctx, req.Email, c.ClientIP(), requestID)
		response.Success(c, http.StatusOK, domain.MsgContactSent, nil)
	case errors.As(err, &validationErr):
		h.audit.LogValidationFailed(ctx, c.ClientIP(), c.GetHeader("User-Agent"), requestID, string(validationErr.Reason))
		c.Error(apperror.BadRequest(validationErr.Error()))
	case errors.As(err, &deliveryErr):
		h.audit.LogDeliveryFailed(ctx, req.Email, c.ClientIP(), requestID, deliveryErr.Cause)
		c.Error(apperror.Internal(domain.MsgDeliveryFailed, err))
	default:
		c.Error(apperror.Internal(domain.MsgDeliveryFailed, err))
	}
}
