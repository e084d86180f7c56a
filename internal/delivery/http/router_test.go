package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"bodhini/internal/delivery/http/controllers"
	"bodhini/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubVerifier map[string]*domain.Principal

func (s stubVerifier) Verify(token string) (*domain.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

type stubEventService struct {
	domain.EventService
	listed int
}

func (s *stubEventService) ListEvents(ctx context.Context) (*domain.EventListing, error) {
	s.listed++
	return &domain.EventListing{Ongoing: []*domain.Event{}, Upcoming: []*domain.Event{}, Previous: []*domain.Event{}}, nil
}

func (s *stubEventService) ListAllEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.EventDetail, int, error) {
	return nil, 0, nil
}

func newTestRouter(t *testing.T, events *stubEventService, mediaRoot string) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		Logger: testLogger,
		TokenVerifier: stubVerifier{
			"staff-token": {UserID: "u-1", Username: "admin", IsStaff: true},
			"user-token":  {UserID: "u-2", Username: "alice"},
		},
		AllowedHosts:   []string{"bodhini.example", "localhost"},
		AllowedOrigins: []string{"https://bodhini.example"},
		MediaRoot:      mediaRoot,
		Auth:           controllers.NewAuthController(testLogger, nil),
		Profile:        controllers.NewProfileController(testLogger, nil),
		Event:          controllers.NewEventController(testLogger, events),
		Media:          controllers.NewMediaController(testLogger, nil),
		Contact:        controllers.NewContactController(testLogger, nil),
	})
}

func TestRouter_PublicEventsListing(t *testing.T) {
	events := &stubEventService{}
	router := newTestRouter(t, events, "")
	req := httptest.NewRequest(http.MethodGet, "http://localhost/api/events", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, events.listed)
}

func TestRouter_AdminRequiresStaff(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"unknown token", "forged", http.StatusUnauthorized},
		{"non-staff user", "user-token", http.StatusForbidden},
		{"staff", "staff-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &stubEventService{}, "")
			req := httptest.NewRequest(http.MethodGet, "http://localhost/api/admin/events", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRouter_RejectsUnknownHost(t *testing.T) {
	router := newTestRouter(t, &stubEventService{}, "")
	req := httptest.NewRequest(http.MethodGet, "http://evil.example/api/events", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_ServesLocalMedia(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploaded_media"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploaded_media", "a.txt"), []byte("hello"), 0o644))

	router := newTestRouter(t, &stubEventService{}, root)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://localhost/media/uploaded_media/a.txt", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
}

func TestRouter_MediaDoesNotListDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploaded_media"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploaded_media", "secret.txt"), []byte("x"), 0o644))
	router := newTestRouter(t, &stubEventService{}, root)

	for _, path := range []string{"/media/", "/media/uploaded_media/", "/media/uploaded_media"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://localhost"+path, nil))

			assert.NotEqual(t, http.StatusOK, rr.Code)
			assert.NotContains(t, rr.Body.String(), "secret.txt")
		})
	}
}

func TestRouter_MediaRouteDisabledWithoutLocalRoot(t *testing.T) {
	router := newTestRouter(t, &stubEventService{}, "")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://localhost/media/uploaded_media/a.txt", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, &stubEventService{}, "")
	req := httptest.NewRequest(http.MethodOptions, "http://localhost/api/events", nil)
	req.Header.Set("Origin", "https://bodhini.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://bodhini.example", rr.Header().Get("Access-Control-Allow-Origin"))
}
