package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"bodhini/internal/delivery/http/helpers"
	"bodhini/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ContactRequest is the request body for POST /api/contact. JSON or form-encoded.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate implements validation.Validatable.
func (c ContactRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Subject, validation.RuneLength(0, 200)),
		validation.Field(&c.Message, validation.Required),
	)
}

type ContactController struct {
	Logger  *slog.Logger
	Service domain.EmailService
}

func NewContactController(logger *slog.Logger, svc domain.EmailService) *ContactController {
	return &ContactController{
		Logger:  logger,
		Service: svc,
	}
}

// SendMessage godoc
// @Summary Send a contact message
// @Description Forwards the message to the site's contact inbox.
// @Tags contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body ContactRequest true "Contact message"
// @Success 200 {object} controllers.StatusResponse "status: sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/contact [post]
func (c *ContactController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	msg := &domain.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	if err := c.Service.SendContactMessage(r.Context(), msg); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to send message. Please try again later.")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "sent"})
}
