package domain

import (
	"context"
	"io"
	"time"
)

// User represents a registered account
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Profile holds the optional public details of a user. Every user has exactly one.
// swagger:model Profile
type Profile struct {
	UserID    string    `json:"user_id"`
	Image     *string   `json:"image"`
	Bio       *string   `json:"bio"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWithProfile bundles a user with its profile.
// swagger:model UserWithProfile
type UserWithProfile struct {
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}

// Principal is the authenticated caller extracted from a token.
type Principal struct {
	UserID   string
	Username string
	IsStaff  bool
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(user *User, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// CreateWithProfile inserts the user and an empty profile in one transaction.
	CreateWithProfile(ctx context.Context, user *User) (*Profile, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	// EnsureForUser returns the user's profile, creating an empty one if missing.
	EnsureForUser(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

// LoginResult is returned after successful authentication.
type LoginResult struct {
	Token string
	User  *User
}

// ProfileUpdate carries optional changes to a user and its profile.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Bio      *string
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AccountService defines registration, login, and profile operations.
type AccountService interface {
	// Register returns a *RejectionError when the signup is refused.
	Register(ctx context.Context, in RegisterInput) (*UserWithProfile, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetProfile(ctx context.Context, userID string) (*UserWithProfile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*UserWithProfile, error)
	SetProfileImage(ctx context.Context, userID string, upload Upload) (*UserWithProfile, error)
}
