package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bodhini/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func mapUserWriteErr(err error) error {
	c, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	switch c {
	case "users_username_key":
		return domain.ErrDuplicateUsername
	case "users_email_key":
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("unique violation on %q: %w", c, err)
}

// CreateWithProfile inserts the user and an empty profile in one transaction.
func (r *userRepository) CreateWithProfile(ctx context.Context, u *domain.User) (*domain.Profile, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (username, email, password_hash, salt, is_staff, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.Salt, u.IsStaff, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return nil, mapUserWriteErr(err)
	}

	p := &domain.Profile{UserID: u.ID, UpdatedAt: u.UpdatedAt}
	if _, err := tx.ExecContext(ctx, `INSERT INTO profiles (user_id, updated_at) VALUES ($1, $2)`, p.UserID, p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, salt, is_staff, created_at, updated_at
		FROM users
		WHERE ` + where
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users SET username = $1, email = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, u.Username, u.Email, u.UpdatedAt, u.ID)
	if err != nil {
		return mapUserWriteErr(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
