package postgres

import (
	"context"
	"database/sql"

	"bodhini/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

// EnsureForUser returns the user's profile, inserting an empty one first if none exists.
func (r *profileRepository) EnsureForUser(ctx context.Context, userID string) (*domain.Profile, error) {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{}
	var image, bio sql.NullString
	err = r.DB.QueryRowContext(ctx, `SELECT user_id, image, bio, updated_at FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &image, &bio, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Image = stringPtr(image)
	p.Bio = stringPtr(bio)
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles SET image = $1, bio = $2, updated_at = $3
		WHERE user_id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, nullString(p.Image), nullString(p.Bio), p.UpdatedAt, p.UserID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
