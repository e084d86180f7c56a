package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"bodhini/internal/domain"

	"github.com/google/uuid"
)

const (
	maxBioLen        = 500
	profileImagesDir = "profile_pics"
)

// Rejection reasons returned to clients during registration.
const (
	reasonAllRequired     = "All fields are required."
	reasonPasswordsDiffer = "Passwords do not match."
	reasonCheckerDown     = "Email validation service unavailable."
	reasonCheckerTimeout  = "Email validation service timed out."
	reasonCheckerFailed   = "Email validation failed: %v"
	reasonUsernameTaken   = "A user with that username already exists."
	reasonEmailTaken      = "A user with that email already exists."
	reasonStoreFailed     = "Registration failed."
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type accountService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	checker        domain.EmailChecker
	emailService   domain.EmailService
	storage        domain.FileStorage
	clock          domain.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAccountService creates an AccountService with the given repositories and ports.
// emailService may be nil, in which case no welcome email is sent.
func NewAccountService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	checker domain.EmailChecker,
	emailService domain.EmailService,
	storage domain.FileStorage,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AccountService {
	return &accountService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		checker:        checker,
		emailService:   emailService,
		storage:        storage,
		clock:          clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Register runs the signup checks in order and stops at the first failure.
// Every refusal is a *domain.RejectionError and leaves no account behind.
func (s *accountService) Register(ctx context.Context, in domain.RegisterInput) (*domain.UserWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" || in.Password2 == "" {
		return nil, domain.Reject("", reasonAllRequired)
	}
	if in.Password != in.Password2 {
		return nil, domain.Reject("password2", reasonPasswordsDiffer)
	}
	if err := s.checkEmail(ctx, email); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.Reject("username", reasonUsernameTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, s.storeRejection(ctx, "lookup username", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.Reject("email", reasonEmailTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, s.storeRejection(ctx, "lookup email", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, s.storeRejection(ctx, "generate salt", err)
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, s.storeRejection(ctx, "hash password", err)
	}

	now := s.clock.Now()
	user := domain.NewUser(username, email, now, now)
	user.PasswordHash = hash
	user.Salt = salt
	profile, err := s.userRepo.CreateWithProfile(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			return nil, domain.Reject("username", reasonUsernameTaken)
		case errors.Is(err, domain.ErrDuplicateEmail):
			return nil, domain.Reject("email", reasonEmailTaken)
		}
		return nil, s.storeRejection(ctx, "create user", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Username: user.Username}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email not sent", "user_id", user.ID, "err", err)
		}
	}
	return &domain.UserWithProfile{User: user, Profile: profile}, nil
}

// checkEmail asks the email checker about email and converts its answer into a rejection.
func (s *accountService) checkEmail(ctx context.Context, email string) error {
	verdict, err := s.checker.Check(ctx, email)
	switch {
	case err == nil && verdict.IsValid:
		return nil
	case err == nil:
		return domain.Reject("email", verdict.Message)
	case errors.Is(err, domain.ErrCheckerUnavailable):
		return &domain.RejectionError{Kind: domain.KindUnavailable, Reason: reasonCheckerDown, Err: err}
	case errors.Is(err, domain.ErrCheckerTimeout):
		return &domain.RejectionError{Kind: domain.KindTimeout, Reason: reasonCheckerTimeout, Err: err}
	default:
		return &domain.RejectionError{Kind: domain.KindDependency, Reason: fmt.Sprintf(reasonCheckerFailed, err), Err: err}
	}
}

func (s *accountService) storeRejection(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "registration failed", "op", op, "err", err)
	return &domain.RejectionError{Kind: domain.KindStore, Reason: reasonStoreFailed, Err: err}
}

func (s *accountService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.LoginResult{Token: token, User: user}, nil
}

func (s *accountService) GetProfile(ctx context.Context, userID string) (*domain.UserWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.load(ctx, userID)
}

func (s *accountService) load(ctx context.Context, userID string) (*domain.UserWithProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	profile, err := s.profileRepo.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &domain.UserWithProfile{User: user, Profile: profile}, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, profile := current.User, current.Profile
	now := s.clock.Now()

	userChanged := false
	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, domain.Reject("username", "Username cannot be blank.")
		}
		if username != user.Username {
			if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
				return nil, domain.ErrDuplicateUsername
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
			userChanged = true
		}
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" {
			return nil, domain.Reject("email", "Email cannot be blank.")
		}
		if !strings.EqualFold(email, user.Email) {
			if err := s.checkEmail(ctx, email); err != nil {
				return nil, err
			}
			email = strings.ToLower(email)
			if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
				return nil, domain.ErrDuplicateEmail
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
			userChanged = true
		}
	}
	if update.Bio != nil && utf8.RuneCountInString(*update.Bio) > maxBioLen {
		return nil, domain.Reject("bio", fmt.Sprintf("Bio must be at most %d characters.", maxBioLen))
	}

	if userChanged {
		user.UpdatedAt = now
		if err := s.userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	if update.Bio != nil {
		bio := strings.TrimSpace(*update.Bio)
		if bio == "" {
			profile.Bio = nil
		} else {
			profile.Bio = &bio
		}
		profile.UpdatedAt = now
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return &domain.UserWithProfile{User: user, Profile: profile}, nil
}

// SetProfileImage stores upload under profile_pics/ and points the profile at it.
// The previous image is removed once the profile no longer references it.
func (s *accountService) SetProfileImage(ctx context.Context, userID string, upload domain.Upload) (*domain.UserWithProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ext := strings.ToLower(path.Ext(upload.Filename))
	if upload.Body == nil || !imageExtensions[ext] {
		return nil, domain.Reject("image", "Upload a valid image (jpg, jpeg, png, gif or webp).")
	}

	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := profileImagesDir + "/" + uuid.NewString() + ext
	ref, err := s.storage.Save(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	profile := current.Profile
	previous := profile.Image
	profile.Image = &ref
	profile.UpdatedAt = s.clock.Now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if delErr := s.storage.Delete(ctx, ref); delErr != nil {
			s.logger.WarnContext(ctx, "orphaned profile image", "ref", ref, "err", delErr)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if previous != nil && *previous != "" && *previous != ref {
		if err := s.storage.Delete(ctx, *previous); err != nil {
			s.logger.WarnContext(ctx, "previous profile image not removed", "ref", *previous, "err", err)
		}
	}
	return current, nil
}
