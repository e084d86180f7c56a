package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bodhini/internal/delivery/http/helpers"
	"bodhini/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxMediaBytes     = 512 << 20
	multipartMemLimit = 32 << 20
)

var mediaTypes = []any{domain.MediaAudio, domain.MediaVideo, domain.MediaImage}

type MediaController struct {
	Logger  *slog.Logger
	Service domain.MediaService
}

func NewMediaController(logger *slog.Logger, svc domain.MediaService) *MediaController {
	return &MediaController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMediaResponse is the data payload for GET /api/media (200).
type ListMediaResponse struct {
	Items      []*domain.Media        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListMediaSuccessResponse is the success response envelope for GET /api/media (200).
type ListMediaSuccessResponse struct {
	Data  ListMediaResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MediaSuccessResponse is the success response envelope for a single media item.
type MediaSuccessResponse struct {
	Data  *domain.Media     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMedia godoc
// @Summary List media
// @Description Returns a paginated list of media items, newest first.
// @Tags media
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListMediaSuccessResponse "data contains items and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/media [get]
func (c *MediaController) ListMedia(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		writeInternalError(c.Logger, w, r, err)
		return
	}
	if items == nil {
		items = []*domain.Media{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMediaResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetMedia godoc
// @Summary Get a media item
// @Tags media
// @Produce json
// @Param id path string true "Media ID (UUID)"
// @Success 200 {object} controllers.MediaSuccessResponse "data contains the media item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/media/{id} [get]
func (c *MediaController) GetMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid media id")
		return
	}
	m, err := c.Service.Get(r.Context(), id)
	if err != nil {
		c.writeMediaError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// UploadMediaForm holds the non-file fields of POST /api/media.
type UploadMediaForm struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	MediaType   domain.MediaType `json:"media_type"`
}

// Validate implements validation.Validatable.
func (f UploadMediaForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&f.MediaType, validation.Required, validation.In(mediaTypes...)),
	)
}

// UploadMedia godoc
// @Summary Upload a media item (staff)
// @Description Multipart upload with fields title, description (optional), media_type (audio, video or image) and file. Requires a staff token.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param media_type formData string true "audio, video or image"
// @Param file formData file true "Media file"
// @Success 201 {object} controllers.MediaSuccessResponse "data contains the created media item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/media [post]
func (c *MediaController) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMediaBytes)
	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := UploadMediaForm{
		Title:     strings.TrimSpace(r.FormValue("title")),
		MediaType: domain.MediaType(strings.TrimSpace(r.FormValue("media_type"))),
	}
	if d := strings.TrimSpace(r.FormValue("description")); d != "" {
		form.Description = &d
	}
	if !helpers.Validate(w, &form) {
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONFieldError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file", "file is required")
		return
	}
	defer file.Close()

	m, err := c.Service.Upload(r.Context(), form.Title, form.Description, form.MediaType, domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		c.writeMediaError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, m)
}

// UpdateMediaRequest is the request body for PATCH /api/media/{id}. Omitted fields are unchanged.
type UpdateMediaRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	MediaType   *domain.MediaType `json:"media_type"`
}

// Validate implements validation.Validatable.
func (u UpdateMediaRequest) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Title, validation.NilOrNotEmpty, validation.RuneLength(0, 200)),
		validation.Field(&u.MediaType, validation.NilOrNotEmpty, validation.In(mediaTypes...)),
	)
}

// UpdateMedia godoc
// @Summary Update a media item (staff)
// @Description Partially updates title, description or media_type. The file itself is not replaced. Requires a staff token.
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID (UUID)"
// @Param body body UpdateMediaRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.MediaSuccessResponse "data contains the updated media item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/media/{id} [patch]
func (c *MediaController) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid media id")
		return
	}
	var req UpdateMediaRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Service.Update(r.Context(), id, domain.MediaPatch{
		Title:       req.Title,
		Description: req.Description,
		MediaType:   req.MediaType,
	})
	if err != nil {
		c.writeMediaError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// DeleteMedia godoc
// @Summary Delete a media item (staff)
// @Description Removes the record, then its stored file. Requires a staff token.
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID (UUID)"
// @Success 200 {object} controllers.StatusResponse "status: deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/media/{id} [delete]
func (c *MediaController) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid media id")
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.writeMediaError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (c *MediaController) writeMediaError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "media not found")
	default:
		writeInternalError(c.Logger, w, r, err)
	}
}
