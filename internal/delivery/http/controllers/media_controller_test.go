package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bodhini/internal/delivery/http/helpers"
	"bodhini/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMediaID = "0b5f8a7c-1d2e-4f3a-8b9c-0d1e2f3a4b5c"

// fakeMediaService implements domain.MediaService for handler tests.
type fakeMediaService struct {
	items     []*domain.Media
	total     int
	listErr   error
	item      *domain.Media
	getErr    error
	uploadErr error
	updateErr error
	deleteErr error

	lastParams      domain.PaginationParams
	lastTitle       string
	lastDescription *string
	lastType        domain.MediaType
	lastBody        string
	lastPatch       domain.MediaPatch
	lastDeleted     string
}

func (f *fakeMediaService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Media, int, error) {
	f.lastParams = params
	return f.items, f.total, f.listErr
}

func (f *fakeMediaService) Get(ctx context.Context, id string) (*domain.Media, error) {
	return f.item, f.getErr
}

func (f *fakeMediaService) Upload(ctx context.Context, title string, description *string, mediaType domain.MediaType, upload domain.Upload) (*domain.Media, error) {
	f.lastTitle, f.lastDescription, f.lastType = title, description, mediaType
	b, _ := io.ReadAll(upload.Body)
	f.lastBody = string(b)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &domain.Media{ID: testMediaID, Title: title, Description: description, MediaType: mediaType, File: "uploaded_media/x.mp3"}, nil
}

func (f *fakeMediaService) Update(ctx context.Context, id string, patch domain.MediaPatch) (*domain.Media, error) {
	f.lastPatch = patch
	return f.item, f.updateErr
}

func (f *fakeMediaService) Delete(ctx context.Context, id string) error {
	f.lastDeleted = id
	return f.deleteErr
}

func TestMediaController_ListMedia(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeMediaService{
		items: []*domain.Media{{ID: "m1", Title: "Chant", MediaType: domain.MediaAudio, UploadedAt: now}},
		total: 1,
	}
	ctrl := NewMediaController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.ListMedia(rr, httptest.NewRequest(http.MethodGet, "/api/media?page_size=500", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, helpers.MaxPageSize, fake.lastParams.PageSize)
	var got ListMediaResponse
	decodeData(t, decodeEnvelope(t, rr), &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Chant", got.Items[0].Title)
	assert.Equal(t, 1, got.Pagination.TotalPages)
}

func TestMediaController_ListMedia_EmptyIsArray(t *testing.T) {
	ctrl := NewMediaController(testLogger, &fakeMediaService{})
	rr := httptest.NewRecorder()

	ctrl.ListMedia(rr, httptest.NewRequest(http.MethodGet, "/api/media", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"items":[]`)
}

func TestMediaController_GetMedia(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"success", testMediaID, nil, http.StatusOK},
		{"invalid id", "abc", nil, http.StatusBadRequest},
		{"not found", testMediaID, domain.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMediaController(testLogger, &fakeMediaService{item: &domain.Media{ID: testMediaID}, getErr: tt.err})
			req := httptest.NewRequest(http.MethodGet, "/api/media/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rr := httptest.NewRecorder()

			ctrl.GetMedia(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func mediaUploadRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "talk.MP3")
		require.NoError(t, err)
		_, err = fw.Write([]byte("ID3"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMediaController_UploadMedia(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		withFile   bool
		fakeErr    error
		wantStatus int
		wantField  string
	}{
		{
			name:       "success",
			fields:     map[string]string{"title": " Evening Chant ", "description": "Recorded live", "media_type": "audio"},
			withFile:   true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			fields:     map[string]string{"media_type": "audio"},
			withFile:   true,
			wantStatus: http.StatusBadRequest,
			wantField:  "title",
		},
		{
			name:       "bad media type",
			fields:     map[string]string{"title": "T", "media_type": "pdf"},
			withFile:   true,
			wantStatus: http.StatusBadRequest,
			wantField:  "media_type",
		},
		{
			name:       "missing file",
			fields:     map[string]string{"title": "T", "media_type": "video"},
			wantStatus: http.StatusBadRequest,
			wantField:  "file",
		},
		{
			name:       "storage failure",
			fields:     map[string]string{"title": "T", "media_type": "image"},
			withFile:   true,
			fakeErr:    errors.New("bucket unreachable"),
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeMediaService{uploadErr: tt.fakeErr}
			ctrl := NewMediaController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.UploadMedia(rr, mediaUploadRequest(t, tt.fields, tt.withFile))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				var got domain.Media
				decodeData(t, envelope, &got)
				assert.Equal(t, testMediaID, got.ID)
				assert.Equal(t, "Evening Chant", fake.lastTitle)
				require.NotNil(t, fake.lastDescription)
				assert.Equal(t, "Recorded live", *fake.lastDescription)
				assert.Equal(t, domain.MediaAudio, fake.lastType)
				assert.Equal(t, "ID3", fake.lastBody)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantField, envelope.Error.Field)
		})
	}
}

func TestMediaController_UpdateMedia(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeMediaService{item: &domain.Media{ID: testMediaID, Title: "New"}}
		ctrl := NewMediaController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPatch, "/api/media/"+testMediaID, strings.NewReader(`{"title":"New","media_type":"video"}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("id", testMediaID)
		rr := httptest.NewRecorder()

		ctrl.UpdateMedia(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.lastPatch.MediaType)
		assert.Equal(t, domain.MediaVideo, *fake.lastPatch.MediaType)
		assert.Nil(t, fake.lastPatch.Description)
	})

	t.Run("bad media type", func(t *testing.T) {
		ctrl := NewMediaController(testLogger, &fakeMediaService{})
		req := httptest.NewRequest(http.MethodPatch, "/api/media/"+testMediaID, strings.NewReader(`{"media_type":"pdf"}`))
		req.SetPathValue("id", testMediaID)
		rr := httptest.NewRecorder()

		ctrl.UpdateMedia(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "media_type", decodeEnvelope(t, rr).Error.Field)
	})

	t.Run("service validation", func(t *testing.T) {
		ctrl := NewMediaController(testLogger, &fakeMediaService{updateErr: fmt.Errorf("%w: title is required", domain.ErrInvalidInput)})
		req := httptest.NewRequest(http.MethodPatch, "/api/media/"+testMediaID, strings.NewReader(`{"title":"  "}`))
		req.SetPathValue("id", testMediaID)
		rr := httptest.NewRecorder()

		ctrl.UpdateMedia(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMediaController_DeleteMedia(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"service error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeMediaService{deleteErr: tt.err}
			ctrl := NewMediaController(testLogger, fake)
			req := httptest.NewRequest(http.MethodDelete, "/api/media/"+testMediaID, nil)
			req.SetPathValue("id", testMediaID)
			rr := httptest.NewRecorder()

			ctrl.DeleteMedia(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, testMediaID, fake.lastDeleted)
		})
	}
}
