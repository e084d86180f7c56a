package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle position of an event relative to a point in time.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusOngoing  EventStatus = "ongoing"
	StatusPrevious EventStatus = "previous"
)

// Event represents a scheduled event published on the site.
// swagger:model Event
type Event struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	About            string           `json:"about_event"`
	MainSpeaker      *string          `json:"main_speaker"`
	StartAt          time.Time        `json:"start_datetime"`
	DurationHours    *decimal.Decimal `json:"duration_hours" swaggertype:"string"`
	Image            *string          `json:"event_image"`
	RegistrationLink *string          `json:"registration_link"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewEvent returns an active Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, slug, about string, startAt time.Time, durationHours *decimal.Decimal, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:         title,
		Slug:          slug,
		About:         about,
		StartAt:       startAt,
		DurationHours: durationHours,
		IsActive:      true,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// EndsAt returns the end of the event. An event without a duration is instantaneous.
func (e *Event) EndsAt() time.Time {
	return EndTime(e.StartAt, e.DurationHours)
}

// StatusAt classifies the event against now.
func (e *Event) StatusAt(now time.Time) EventStatus {
	return Classify(e.StartAt, e.DurationHours, now)
}

// HoursToDuration converts fractional hours into a time.Duration (2.5 -> 2h30m).
// Zero and negative values yield 0.
func HoursToDuration(hours decimal.Decimal) time.Duration {
	if hours.Sign() <= 0 {
		return 0
	}
	return time.Duration(hours.Mul(decimal.NewFromInt(int64(time.Hour))).Round(0).IntPart())
}

// EndTime returns start plus the optional duration in hours.
func EndTime(start time.Time, durationHours *decimal.Decimal) time.Time {
	if durationHours == nil {
		return start
	}
	return start.Add(HoursToDuration(*durationHours))
}

// Classify places an event on its lifecycle. The window [start, end] is closed on both ends.
func Classify(start time.Time, durationHours *decimal.Decimal, now time.Time) EventStatus {
	end := EndTime(start, durationHours)
	switch {
	case now.Before(start):
		return StatusUpcoming
	case !now.After(end):
		return StatusOngoing
	default:
		return StatusPrevious
	}
}

// RegistrationOpen reports whether an event in the given status still accepts registrations.
func RegistrationOpen(status EventStatus) bool {
	return status == StatusUpcoming || status == StatusOngoing
}

// EventListing holds active events partitioned by status, each bucket in start order.
// swagger:model EventListing
type EventListing struct {
	Ongoing  []*Event `json:"ongoing_events"`
	Upcoming []*Event `json:"upcoming_events"`
	Previous []*Event `json:"previous_events"`
}

// EventDetail is an event plus values derived at read time.
// swagger:model EventDetail
type EventDetail struct {
	Event            *Event      `json:"event"`
	Status           EventStatus `json:"status"`
	RegistrationOpen bool        `json:"registration_open"`
	EndsAt           time.Time   `json:"ends_at"`
}

// NewEventDetail derives status and registration eligibility for e at now.
func NewEventDetail(e *Event, now time.Time) *EventDetail {
	status := e.StatusAt(now)
	return &EventDetail{
		Event:            e,
		Status:           status,
		RegistrationOpen: RegistrationOpen(status),
		EndsAt:           e.EndsAt(),
	}
}

// EventPatch carries optional field updates. Nil fields are left unchanged.
type EventPatch struct {
	Title            *string
	Slug             *string
	About            *string
	MainSpeaker      *string
	StartAt          *time.Time
	DurationHours    *decimal.Decimal
	Image            *string
	RegistrationLink *string
	IsActive         *bool
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Slug == nil && p.About == nil && p.MainSpeaker == nil &&
		p.StartAt == nil && p.DurationHours == nil && p.Image == nil &&
		p.RegistrationLink == nil && p.IsActive == nil
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetActiveBySlug returns ErrNotFound for missing and inactive events alike.
	GetActiveBySlug(ctx context.Context, slug string) (*Event, error)
	// ListActive returns active events ordered by start time ascending.
	ListActive(ctx context.Context) ([]*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
}

// EventService defines public event queries and staff administration.
type EventService interface {
	ListEvents(ctx context.Context) (*EventListing, error)
	GetEvent(ctx context.Context, slug string) (*EventDetail, error)
	ListAllEvents(ctx context.Context, params PaginationParams) ([]*EventDetail, int, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	DeactivateEvent(ctx context.Context, id string) error
}
