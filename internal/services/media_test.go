package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bodhini/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMediaRepo is an in-memory MediaRepository for tests.
type fakeMediaRepo struct {
	byID      map[string]*domain.Media
	order     []string
	nextID    int
	createErr error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{byID: make(map[string]*domain.Media), nextID: 1}
}

func (f *fakeMediaRepo) Create(ctx context.Context, m *domain.Media) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = fmt.Sprintf("m-%d", f.nextID)
	f.nextID++
	f.byID[m.ID] = m
	f.order = append([]string{m.ID}, f.order...)
	return nil
}

func (f *fakeMediaRepo) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMediaRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Media, int, error) {
	out := make([]*domain.Media, 0)
	for i, id := range f.order {
		if i >= params.Offset() && len(out) < params.PageSize {
			out = append(out, f.byID[id])
		}
	}
	return out, len(f.order), nil
}

func (f *fakeMediaRepo) Update(ctx context.Context, id string, patch domain.MediaPatch) (*domain.Media, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = patch.Description
	}
	if patch.MediaType != nil {
		m.MediaType = *patch.MediaType
	}
	return m, nil
}

func (f *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func newMediaFixture() (*fakeMediaRepo, *fakeStorage, domain.MediaService) {
	repo := newFakeMediaRepo()
	storage := newFakeStorage()
	return repo, storage, NewMediaService(repo, storage, &countingClock{now: listNow}, discardLogger(), testTimeout)
}

func upload(name, body string) domain.Upload {
	return domain.Upload{Filename: name, ContentType: "application/octet-stream", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestMediaService_Upload(t *testing.T) {
	repo, storage, svc := newMediaFixture()
	desc := "Morning chant"

	m, err := svc.Upload(context.Background(), "  Chant ", &desc, domain.MediaAudio, upload("Chant.MP3", "sound"))
	require.NoError(t, err)
	assert.Equal(t, "Chant", m.Title)
	assert.True(t, strings.HasPrefix(m.File, "uploaded_media/"))
	assert.True(t, strings.HasSuffix(m.File, ".mp3"))
	assert.Equal(t, "sound", storage.files[m.File])
	assert.Equal(t, listNow, m.UploadedAt)
	assert.Contains(t, repo.byID, m.ID)
}

func TestMediaService_Upload_Validation(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		mediaType domain.MediaType
		upload    domain.Upload
	}{
		{"blank title", " ", domain.MediaImage, upload("a.png", "x")},
		{"title too long", strings.Repeat("t", 201), domain.MediaImage, upload("a.png", "x")},
		{"unknown type", "Doc", domain.MediaType("pdf"), upload("a.pdf", "x")},
		{"missing file", "Pic", domain.MediaImage, domain.Upload{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, storage, svc := newMediaFixture()
			_, err := svc.Upload(context.Background(), tt.title, nil, tt.mediaType, tt.upload)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, repo.byID)
			assert.Empty(t, storage.files)
		})
	}
}

func TestMediaService_Upload_RecordFailureRemovesFile(t *testing.T) {
	repo, storage, svc := newMediaFixture()
	repo.createErr = errors.New("db down")

	_, err := svc.Upload(context.Background(), "Clip", nil, domain.MediaVideo, upload("c.mp4", "v"))
	require.Error(t, err)
	assert.Empty(t, storage.files)
	assert.Len(t, storage.deleted, 1)
}

func TestMediaService_ListAndGet(t *testing.T) {
	_, _, svc := newMediaFixture()
	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Upload(context.Background(), title, nil, domain.MediaImage, upload(title+".png", "x"))
		require.NoError(t, err)
	}

	items, total, err := svc.List(context.Background(), domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Title, "newest first")

	m, err := svc.Get(context.Background(), items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "second", m.Title)

	_, err = svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMediaService_Update(t *testing.T) {
	_, _, svc := newMediaFixture()
	m, err := svc.Upload(context.Background(), "Clip", nil, domain.MediaVideo, upload("c.mp4", "v"))
	require.NoError(t, err)

	title := " Renamed "
	audio := domain.MediaAudio
	updated, err := svc.Update(context.Background(), m.ID, domain.MediaPatch{Title: &title, MediaType: &audio})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, domain.MediaAudio, updated.MediaType)

	bad := domain.MediaType("gif")
	_, err = svc.Update(context.Background(), m.ID, domain.MediaPatch{MediaType: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Update(context.Background(), "nope", domain.MediaPatch{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMediaService_Delete(t *testing.T) {
	repo, storage, svc := newMediaFixture()
	m, err := svc.Upload(context.Background(), "Clip", nil, domain.MediaVideo, upload("c.mp4", "v"))
	require.NoError(t, err)

	storage.deleteErr = errors.New("bucket gone")
	require.NoError(t, svc.Delete(context.Background(), m.ID), "file removal failure is only logged")
	assert.NotContains(t, repo.byID, m.ID)
	assert.Equal(t, []string{m.File}, storage.deleted)

	require.ErrorIs(t, svc.Delete(context.Background(), m.ID), domain.ErrNotFound)
}
