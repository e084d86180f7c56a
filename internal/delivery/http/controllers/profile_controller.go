package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"bodhini/internal/delivery/http/helpers"
	"bodhini/internal/delivery/http/middleware"
	"bodhini/internal/domain"
)

// maxImageBytes bounds profile image uploads.
const maxImageBytes = 10 << 20

// UpdateProfileRequest is the request body for PATCH /api/profile. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

func NewProfileController(logger *slog.Logger, svc domain.AccountService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserWithProfileSuccessResponse "data contains user and profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	account, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		c.writeProfileError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, account)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Changes username, email or bio. A new email is checked by the email validation service. Bio is limited to 500 characters; an empty bio clears it.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UserWithProfileSuccessResponse "data contains user and profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (username or email taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/profile [patch]
func (c *ProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Service.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		c.writeProfileError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, account)
}

// SetProfileImage godoc
// @Summary Replace the current user's profile image
// @Description Multipart upload in field "image" (jpg, jpeg, png, gif or webp, up to 10 MiB). The previous image is removed.
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} controllers.UserWithProfileSuccessResponse "data contains user and profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/profile/image [put]
func (c *ProfileController) SetProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+(1<<20))
	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONFieldError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image", "image file is required")
		return
	}
	defer file.Close()
	if header.Size > maxImageBytes {
		helpers.WriteJSONFieldError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image", "image must be at most 10 MiB")
		return
	}
	account, err := c.Service.SetProfileImage(r.Context(), userID, domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		c.writeProfileError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, account)
}

func (c *ProfileController) writeProfileError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *domain.RejectionError
	switch {
	case errors.As(err, &rej):
		writeRejection(w, rej)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrDuplicateUsername):
		helpers.WriteJSONFieldError(w, http.StatusConflict, helpers.ErrCodeConflict, "username", "A user with that username already exists.")
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONFieldError(w, http.StatusConflict, helpers.ErrCodeConflict, "email", "A user with that email already exists.")
	default:
		writeInternalError(c.Logger, w, r, err)
	}
}
