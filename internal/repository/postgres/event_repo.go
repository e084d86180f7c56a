package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bodhini/internal/domain"

	"github.com/shopspring/decimal"
)

const eventColumns = `id, title, slug, about_event, main_speaker, start_datetime, duration_hours,
		event_image, registration_link, is_active, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var speaker, image, link sql.NullString
	var duration decimal.NullDecimal
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.About, &speaker, &e.StartAt, &duration,
		&image, &link, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.MainSpeaker = stringPtr(speaker)
	e.Image = stringPtr(image)
	e.RegistrationLink = stringPtr(link)
	if duration.Valid {
		d := duration.Decimal
		e.DurationHours = &d
	}
	return e, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func mapEventWriteErr(err error) error {
	if c, ok := uniqueConstraint(err); ok && (c == "" || c == "events_slug_key") {
		return domain.ErrDuplicateSlug
	}
	return err
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, slug, about_event, main_speaker, start_datetime, duration_hours,
			event_image, registration_link, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.About, nullString(e.MainSpeaker), e.StartAt, nullDecimal(e.DurationHours),
		nullString(e.Image), nullString(e.RegistrationLink), e.IsActive, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return mapEventWriteErr(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetActiveBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1 AND is_active`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListActive(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_active ORDER BY start_datetime ASC, id ASC`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_datetime DESC, id ASC LIMIT $1 OFFSET $2`
	events, err := r.queryEvents(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Slug != nil {
		set("slug", *patch.Slug)
	}
	if patch.About != nil {
		set("about_event", *patch.About)
	}
	if patch.MainSpeaker != nil {
		set("main_speaker", nullString(emptyAsNil(patch.MainSpeaker)))
	}
	if patch.StartAt != nil {
		set("start_datetime", *patch.StartAt)
	}
	if patch.DurationHours != nil {
		set("duration_hours", nullDecimal(patch.DurationHours))
	}
	if patch.Image != nil {
		set("event_image", nullString(emptyAsNil(patch.Image)))
	}
	if patch.RegistrationLink != nil {
		set("registration_link", nullString(emptyAsNil(patch.RegistrationLink)))
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapEventWriteErr(err)
	}
	return e, nil
}

// emptyAsNil clears an optional column when the patch sets it to "".
func emptyAsNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
