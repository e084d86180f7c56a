package domain

import (
	"context"
	"io"
	"time"
)

// MediaType tags a media item.
type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
	MediaImage MediaType = "image"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	switch t {
	case MediaAudio, MediaVideo, MediaImage:
		return true
	}
	return false
}

// Media is a catalog entry pointing at an uploaded file.
// swagger:model Media
type Media struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	MediaType   MediaType `json:"media_type"`
	File        string    `json:"file"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// MediaPatch carries optional field updates. Nil fields are left unchanged.
type MediaPatch struct {
	Title       *string
	Description *string
	MediaType   *MediaType
}

// MediaRepository defines the interface for media storage
type MediaRepository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	// List returns one page ordered by uploaded_at descending, plus the total count.
	List(ctx context.Context, params PaginationParams) ([]*Media, int, error)
	Update(ctx context.Context, id string, patch MediaPatch) (*Media, error)
	Delete(ctx context.Context, id string) error
}

// FileStorage persists uploaded files and returns a reference clients can fetch.
type FileStorage interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (ref string, err error)
	Delete(ctx context.Context, ref string) error
}

// MediaService defines the media catalog operations.
type MediaService interface {
	List(ctx context.Context, params PaginationParams) ([]*Media, int, error)
	Get(ctx context.Context, id string) (*Media, error)
	Upload(ctx context.Context, title string, description *string, mediaType MediaType, upload Upload) (*Media, error)
	Update(ctx context.Context, id string, patch MediaPatch) (*Media, error)
	Delete(ctx context.Context, id string) error
}
