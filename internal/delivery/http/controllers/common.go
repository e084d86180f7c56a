package controllers

import (
	"log/slog"
	"net/http"
	"regexp"

	"bodhini/internal/delivery/http/helpers"
)

// StatusResponse is the data payload for operations that return no resource.
type StatusResponse struct {
	Status string `json:"status"`
}

const internalErrorMessage = "internal server error"

// writeInternalError logs err and answers 500 without exposing its text.
func writeInternalError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, internalErrorMessage)
}

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
