package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"bodhini/internal/delivery/http/helpers"
	"bodhini/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEventsSuccessResponse is the success response envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  *domain.EventListing `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListEvents godoc
// @Summary List events by status
// @Description Returns active events split into ongoing, upcoming and previous, each ordered by start time. An event is ongoing from its start through its end inclusive.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains ongoing_events, upcoming_events and previous_events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	listing, err := c.Service.ListEvents(r.Context())
	if err != nil {
		writeInternalError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, listing)
}

// EventDetailSuccessResponse is the success response envelope for a single event (200).
type EventDetailSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetEvent godoc
// @Summary Get an event by slug
// @Description Returns an active event with its current status and whether registration is open. Inactive events are reported as not found.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventDetailSuccessResponse "data contains event, status, registration_open and ends_at"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{slug} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	detail, err := c.Service.GetEvent(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		writeInternalError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// ListAllEventsResponse is the data payload for GET /api/admin/events (200).
type ListAllEventsResponse struct {
	Items      []*domain.EventDetail  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListAllEventsSuccessResponse is the success response envelope for GET /api/admin/events (200).
type ListAllEventsSuccessResponse struct {
	Data  ListAllEventsResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListAllEvents godoc
// @Summary List all events (staff)
// @Description Returns a paginated list of every event, including inactive ones, newest start first. Requires a staff token.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListAllEventsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/events [get]
func (c *EventController) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.ListAllEvents(r.Context(), params)
	if err != nil {
		writeInternalError(c.Logger, w, r, err)
		return
	}
	if items == nil {
		items = []*domain.EventDetail{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListAllEventsResponse{Items: items, Pagination: meta})
}

// CreateEventRequest is the request body for POST /api/admin/events.
type CreateEventRequest struct {
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	About            string           `json:"about_event"`
	MainSpeaker      *string          `json:"main_speaker"`
	StartAt          *time.Time       `json:"start_datetime"`
	DurationHours    *decimal.Decimal `json:"duration_hours" swaggertype:"string" example:"2.5"`
	Image            *string          `json:"event_image"`
	RegistrationLink *string          `json:"registration_link"`
	IsActive         *bool            `json:"is_active"`
}

// Validate implements validation.Validatable.
func (c CreateEventRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&c.Slug, validation.Length(0, 200), validation.Match(slugPattern)),
		validation.Field(&c.About, validation.Required),
		validation.Field(&c.MainSpeaker, validation.NilOrNotEmpty, validation.RuneLength(0, 100)),
		validation.Field(&c.StartAt, validation.Required),
		validation.Field(&c.RegistrationLink, is.URL),
	)
}

// EventSuccessResponse is the success response envelope for a created or updated event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event (staff)
// @Description Creates an event. The slug is derived from the title when omitted. duration_hours accepts up to two decimals and must be below 1000. Requires a staff token.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(req.Title, req.Slug, req.About, *req.StartAt, req.DurationHours, time.Time{}, time.Time{})
	event.MainSpeaker = req.MainSpeaker
	event.Image = req.Image
	event.RegistrationLink = req.RegistrationLink
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEventRequest is the request body for PATCH /api/admin/events/{id}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Title            *string          `json:"title"`
	Slug             *string          `json:"slug"`
	About            *string          `json:"about_event"`
	MainSpeaker      *string          `json:"main_speaker"`
	StartAt          *time.Time       `json:"start_datetime"`
	DurationHours    *decimal.Decimal `json:"duration_hours" swaggertype:"string" example:"1.5"`
	Image            *string          `json:"event_image"`
	RegistrationLink *string          `json:"registration_link"`
	IsActive         *bool            `json:"is_active"`
}

// Validate implements validation.Validatable.
func (u UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Title, validation.NilOrNotEmpty, validation.RuneLength(0, 200)),
		validation.Field(&u.Slug, validation.NilOrNotEmpty, validation.Length(0, 200), validation.Match(slugPattern)),
		validation.Field(&u.About, validation.NilOrNotEmpty),
		validation.Field(&u.MainSpeaker, validation.RuneLength(0, 100)),
		validation.Field(&u.RegistrationLink, is.URL),
	)
}

func (u UpdateEventRequest) patch() domain.EventPatch {
	return domain.EventPatch{
		Title:            u.Title,
		Slug:             u.Slug,
		About:            u.About,
		MainSpeaker:      u.MainSpeaker,
		StartAt:          u.StartAt,
		DurationHours:    u.DurationHours,
		Image:            u.Image,
		RegistrationLink: u.RegistrationLink,
		IsActive:         u.IsActive,
	}
}

// UpdateEvent godoc
// @Summary Update an event (staff)
// @Description Partially updates an event, including is_active. Omitted fields are unchanged. Requires a staff token.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/events/{id} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, req.patch())
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeactivateEvent godoc
// @Summary Deactivate an event (staff)
// @Description Hides the event from public listings by setting is_active to false. The event is kept. Requires a staff token.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.StatusResponse "status: deactivated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/events/{id} [delete]
func (c *EventController) DeactivateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	if err := c.Service.DeactivateEvent(r.Context(), id); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "deactivated"})
}

func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrDuplicateSlug):
		helpers.WriteJSONFieldError(w, http.StatusConflict, helpers.ErrCodeConflict, "slug", "an event with this slug already exists")
	default:
		writeInternalError(c.Logger, w, r, err)
	}
}
