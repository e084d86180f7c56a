package emailcheck

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 16

type validateRequest struct {
	Email *string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves POST /validate-email.
type Handler struct {
	Logger *slog.Logger
}

// NewHandler returns a Handler that logs with logger.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{Logger: logger}
}

// NewRouter returns the mux for the standalone checker process.
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /validate-email", h.ValidateEmail)
	return mux
}

// ValidateEmail answers 200 with a verdict, or 400 when the body is not JSON or has no email.
func (h *Handler) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r.Header.Get("Content-Type")) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Request must be JSON"})
		return
	}
	var req validateRequest
	if err := decodeSingle(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Request must be JSON"})
		return
	}
	// Whitespace-only is present, so it is validated (and fails) rather than rejected.
	if req.Email == nil || *req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Email field is required"})
		return
	}
	verdict := Validate(*req.Email)
	h.Logger.DebugContext(r.Context(), "email checked", "is_valid", verdict.IsValid)
	writeJSON(w, http.StatusOK, verdict)
}

// decodeSingle decodes exactly one JSON value and rejects anything after it.
func decodeSingle(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
