package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "bodhini/internal/delivery/http/helpers"
	"bodhini/internal/domain"
)

// RegisterRequest is the request body for POST /api/auth/register. JSON or form-encoded.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// LoginRequest is the request body for POST /api/auth/token
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Username) == "" {
		errs = append(errs, "username is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /api/auth/token
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// LoginSuccessResponse is the success response envelope for POST /api/auth/token (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// UserWithProfileSuccessResponse is the success response envelope for endpoints returning an account.
type UserWithProfileSuccessResponse struct {
	Data  *domain.UserWithProfile `json:"data"`
	Error *h.APIError             `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

func NewAuthController(logger *slog.Logger, svc domain.AccountService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user and an empty profile. The email address is checked by the email validation service first. Accepts JSON or form-encoded bodies.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body RegisterRequest true "Sign-up data"
// @Success 201 {object} controllers.UserWithProfileSuccessResponse "data contains user and profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (error.field names the input when known)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Failure 504 {object} helpers.APIResponse "error.code: gateway_timeout"
// @Router /api/auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Service.Register(r.Context(), domain.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		var rej *domain.RejectionError
		if errors.As(err, &rej) {
			writeRejection(w, rej)
			return
		}
		writeInternalError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, account)
}

// Login godoc
// @Summary Obtain a token
// @Description Authenticate with username and password. Returns a JWT carrying the user id, username and staff flag.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, user_id, username and is_staff"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/token [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		writeInternalError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		Token:    result.Token,
		UserID:   result.User.ID,
		Username: result.User.Username,
		IsStaff:  result.User.IsStaff,
	})
}

// writeRejection maps a rejection to its HTTP status and error code.
func writeRejection(w http.ResponseWriter, rej *domain.RejectionError) {
	status, code := http.StatusBadRequest, h.ErrCodeBadRequest
	switch rej.Kind {
	case domain.KindUnavailable:
		status, code = http.StatusServiceUnavailable, h.ErrCodeServiceUnavailable
	case domain.KindTimeout:
		status, code = http.StatusGatewayTimeout, h.ErrCodeGatewayTimeout
	case domain.KindDependency:
		status, code = http.StatusBadGateway, h.ErrCodeBadGateway
	case domain.KindStore:
		status, code = http.StatusInternalServerError, h.ErrCodeInternalError
	}
	h.WriteJSONFieldError(w, status, code, rej.Field, rej.Reason)
}
