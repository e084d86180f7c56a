package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bodhini/internal/domain"
)

type mediaRepository struct {
	DB *sql.DB
}

func NewMediaRepository(db *sql.DB) domain.MediaRepository {
	return &mediaRepository{DB: db}
}

func scanMedia(row rowScanner) (*domain.Media, error) {
	m := &domain.Media{}
	var desc sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &desc, &m.MediaType, &m.File, &m.UploadedAt); err != nil {
		return nil, err
	}
	m.Description = stringPtr(desc)
	return m, nil
}

func (r *mediaRepository) Create(ctx context.Context, m *domain.Media) error {
	query := `
		INSERT INTO media (title, description, media_type, file, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, m.Title, nullString(m.Description), string(m.MediaType), m.File, m.UploadedAt).Scan(&m.ID)
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := `SELECT id, title, description, media_type, file, uploaded_at FROM media WHERE id = $1`
	m, err := scanMedia(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *mediaRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Media, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, title, description, media_type, file, uploaded_at
		FROM media
		ORDER BY uploaded_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]*domain.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *mediaRepository) Update(ctx context.Context, id string, patch domain.MediaPatch) (*domain.Media, error) {
	setClauses := []string{}
	args := []any{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, nullString(emptyAsNil(patch.Description)))
		n++
	}
	if patch.MediaType != nil {
		setClauses = append(setClauses, fmt.Sprintf("media_type = $%d", n))
		args = append(args, string(*patch.MediaType))
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE media SET %s
		WHERE id = $%d
		RETURNING id, title, description, media_type, file, uploaded_at
	`, strings.Join(setClauses, ", "), n)
	m, err := scanMedia(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
