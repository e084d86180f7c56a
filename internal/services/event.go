package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"bodhini/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxTitleLen   = 200
	maxSlugLen    = 200
	maxSpeakerLen = 100
)

var (
	slugRegexp  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	maxDuration = decimal.NewFromInt(1000)
)

type eventService struct {
	eventRepo      domain.EventRepository
	clock          domain.Clock
	contextTimeout time.Duration
}

// NewEventService returns an EventService backed by eventRepo. clock supplies "now" for classification.
func NewEventService(eventRepo domain.EventRepository, clock domain.Clock, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		clock:          clock,
		contextTimeout: timeout,
	}
}

// ListEvents partitions active events by status. The clock is read once so every
// event is classified against the same instant.
func (s *eventService) ListEvents(ctx context.Context) (*domain.EventListing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	now := s.clock.Now()
	listing := &domain.EventListing{
		Ongoing:  []*domain.Event{},
		Upcoming: []*domain.Event{},
		Previous: []*domain.Event{},
	}
	for _, e := range events {
		switch e.StatusAt(now) {
		case domain.StatusUpcoming:
			listing.Upcoming = append(listing.Upcoming, e)
		case domain.StatusOngoing:
			listing.Ongoing = append(listing.Ongoing, e)
		default:
			listing.Previous = append(listing.Previous, e)
		}
	}
	return listing, nil
}

func (s *eventService) GetEvent(ctx context.Context, slug string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return domain.NewEventDetail(e, s.clock.Now()), nil
}

func (s *eventService) ListAllEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.EventDetail, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	now := s.clock.Now()
	details := make([]*domain.EventDetail, 0, len(events))
	for _, e := range events {
		details = append(details, domain.NewEventDetail(e, now))
	}
	return details, total, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event.Title = strings.TrimSpace(event.Title)
	event.Slug = strings.TrimSpace(event.Slug)
	if event.Slug == "" {
		event.Slug = Slugify(event.Title)
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	now := s.clock.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	merged := *current
	if patch.Title != nil {
		merged.Title = strings.TrimSpace(*patch.Title)
		patch.Title = &merged.Title
	}
	if patch.Slug != nil {
		merged.Slug = strings.TrimSpace(*patch.Slug)
		patch.Slug = &merged.Slug
	}
	if patch.About != nil {
		merged.About = *patch.About
	}
	if patch.MainSpeaker != nil {
		merged.MainSpeaker = patch.MainSpeaker
	}
	if patch.StartAt != nil {
		merged.StartAt = *patch.StartAt
	}
	if patch.DurationHours != nil {
		merged.DurationHours = patch.DurationHours
	}
	if patch.RegistrationLink != nil {
		merged.RegistrationLink = patch.RegistrationLink
	}
	if err := validateEvent(&merged); err != nil {
		return nil, err
	}
	return s.eventRepo.Update(ctx, id, patch)
}

// DeactivateEvent hides the event from public listings. Events are never hard-deleted.
func (s *eventService) DeactivateEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inactive := false
	_, err := s.eventRepo.Update(ctx, id, domain.EventPatch{IsActive: &inactive})
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateEvent(e *domain.Event) error {
	if e.Title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(e.Title) > maxTitleLen {
		return invalid("title must be at most %d characters", maxTitleLen)
	}
	if e.Slug == "" {
		return invalid("slug could not be derived from title")
	}
	if len(e.Slug) > maxSlugLen || !slugRegexp.MatchString(e.Slug) {
		return invalid("slug must contain only letters, numbers, hyphens and underscores")
	}
	if strings.TrimSpace(e.About) == "" {
		return invalid("about_event is required")
	}
	if e.StartAt.IsZero() {
		return invalid("start_datetime is required")
	}
	if e.MainSpeaker != nil && utf8.RuneCountInString(*e.MainSpeaker) > maxSpeakerLen {
		return invalid("main_speaker must be at most %d characters", maxSpeakerLen)
	}
	if d := e.DurationHours; d != nil {
		if d.IsNegative() || d.GreaterThanOrEqual(maxDuration) {
			return invalid("duration_hours must be between 0 and 999.99")
		}
		if !d.Equal(d.Round(2)) {
			return invalid("duration_hours allows at most 2 decimal places")
		}
	}
	if e.RegistrationLink != nil && *e.RegistrationLink != "" {
		u, err := url.ParseRequestURI(*e.RegistrationLink)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("registration_link must be an http(s) URL")
		}
	}
	return nil
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify lowercases s, folds accented letters to ASCII and joins words with hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)
	ascii = slugStrip.ReplaceAllString(strings.ToLower(ascii), "")
	ascii = slugCollapse.ReplaceAllString(ascii, "-")
	slug := strings.Trim(ascii, "-_")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-_")
	}
	return slug
}
