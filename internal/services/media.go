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

const mediaUploadDir = "uploaded_media"

type mediaService struct {
	mediaRepo      domain.MediaRepository
	storage        domain.FileStorage
	clock          domain.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewMediaService returns a MediaService that keeps records in mediaRepo and file bodies in storage.
func NewMediaService(mediaRepo domain.MediaRepository, storage domain.FileStorage, clock domain.Clock, logger *slog.Logger, timeout time.Duration) domain.MediaService {
	return &mediaService{
		mediaRepo:      mediaRepo,
		storage:        storage,
		clock:          clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *mediaService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Media, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, total, err := s.mediaRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	return items, total, nil
}

func (s *mediaService) Get(ctx context.Context, id string) (*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}

func validateMediaTitle(title string) error {
	if title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("title must be at most %d characters", maxTitleLen)
	}
	return nil
}

// Upload stores the file under uploaded_media/ with a random name and records it.
// If the record cannot be written the stored file is removed again.
func (s *mediaService) Upload(ctx context.Context, title string, description *string, mediaType domain.MediaType, upload domain.Upload) (*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if err := validateMediaTitle(title); err != nil {
		return nil, err
	}
	if !mediaType.Valid() {
		return nil, invalid("media_type must be one of audio, video, image")
	}
	if upload.Body == nil || upload.Filename == "" {
		return nil, invalid("file is required")
	}

	key := mediaUploadDir + "/" + uuid.NewString() + strings.ToLower(path.Ext(upload.Filename))
	ref, err := s.storage.Save(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store media file: %w", err)
	}

	m := &domain.Media{
		Title:       title,
		Description: description,
		MediaType:   mediaType,
		File:        ref,
		UploadedAt:  s.clock.Now(),
	}
	if err := s.mediaRepo.Create(ctx, m); err != nil {
		if delErr := s.storage.Delete(ctx, ref); delErr != nil {
			s.logger.WarnContext(ctx, "orphaned media file", "ref", ref, "err", delErr)
		}
		return nil, fmt.Errorf("create media: %w", err)
	}
	return m, nil
}

func (s *mediaService) Update(ctx context.Context, id string, patch domain.MediaPatch) (*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validateMediaTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.MediaType != nil && !patch.MediaType.Valid() {
		return nil, invalid("media_type must be one of audio, video, image")
	}
	m, err := s.mediaRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update media: %w", err)
	}
	return m, nil
}

// Delete removes the record first, then its file. A file that cannot be removed is only logged.
func (s *mediaService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get media: %w", err)
	}
	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete media: %w", err)
	}
	if err := s.storage.Delete(ctx, m.File); err != nil {
		s.logger.WarnContext(ctx, "media file not removed", "id", id, "ref", m.File, "err", err)
	}
	return nil
}
