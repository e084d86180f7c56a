package http

import (
	"log/slog"
	"net/http"
	"strings"

	"bodhini/internal/delivery/http/controllers"
	"bodhini/internal/delivery/http/middleware"
	"bodhini/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds everything NewRouter needs to build the API.
type RouterConfig struct {
	Logger         *slog.Logger
	TokenVerifier  domain.TokenVerifier
	AllowedHosts   []string
	AllowedOrigins []string
	// MediaRoot is the directory served under /media/. Empty disables the route.
	MediaRoot string

	Auth    *controllers.AuthController
	Profile *controllers.ProfileController
	Event   *controllers.EventController
	Media   *controllers.MediaController
	Contact *controllers.ContactController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(cfg.TokenVerifier, cfg.Logger)
	requireStaff := middleware.RequireStaff(cfg.TokenVerifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /api/auth/register", cfg.Auth.Register)
	mux.HandleFunc("POST /api/auth/token", cfg.Auth.Login)

	// Profile
	mux.HandleFunc("GET /api/profile", requireAuth(cfg.Profile.GetProfile))
	mux.HandleFunc("PATCH /api/profile", requireAuth(cfg.Profile.UpdateProfile))
	mux.HandleFunc("PUT /api/profile/image", requireAuth(cfg.Profile.SetProfileImage))

	// Events
	mux.HandleFunc("GET /api/events", cfg.Event.ListEvents)
	mux.HandleFunc("GET /api/events/{slug}", cfg.Event.GetEvent)
	mux.HandleFunc("GET /api/admin/events", requireStaff(cfg.Event.ListAllEvents))
	mux.HandleFunc("POST /api/admin/events", requireStaff(cfg.Event.CreateEvent))
	mux.HandleFunc("PATCH /api/admin/events/{id}", requireStaff(cfg.Event.UpdateEvent))
	mux.HandleFunc("DELETE /api/admin/events/{id}", requireStaff(cfg.Event.DeactivateEvent))

	// Media
	mux.HandleFunc("GET /api/media", cfg.Media.ListMedia)
	mux.HandleFunc("GET /api/media/{id}", cfg.Media.GetMedia)
	mux.HandleFunc("POST /api/media", requireStaff(cfg.Media.UploadMedia))
	mux.HandleFunc("PATCH /api/media/{id}", requireStaff(cfg.Media.UpdateMedia))
	mux.HandleFunc("DELETE /api/media/{id}", requireStaff(cfg.Media.DeleteMedia))

	// Contact
	mux.HandleFunc("POST /api/contact", cfg.Contact.SendMessage)

	if cfg.MediaRoot != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", noDirListing(http.FileServer(http.Dir(cfg.MediaRoot)))))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.AllowedHosts(cfg.AllowedHosts, handler)
	return handler
}

// noDirListing answers 404 for directory paths so stored files cannot be enumerated.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
