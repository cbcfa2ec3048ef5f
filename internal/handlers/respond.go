package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/askelund/routine-manager/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps the shared error taxonomy onto HTTP statuses. A missing
// reference is 404; an unreachable store is 503 so clients know the failure
// is transient and retryable. Everything else is a plain 500.
func respondError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, message, http.StatusNotFound)
	case errors.Is(err, models.ErrUnavailable):
		http.Error(w, message, http.StatusServiceUnavailable)
	default:
		http.Error(w, message, http.StatusInternalServerError)
	}
}
