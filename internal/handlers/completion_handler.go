package handlers

import (
	"net/http"

	"github.com/askelund/routine-manager/internal/services"
	"github.com/askelund/routine-manager/pkg/logger"
	"github.com/askelund/routine-manager/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CompletionHandler struct {
	Service *services.CompletionService
}

func NewCompletionHandler(service *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{Service: service}
}

// POST /routines/{id}/toggle
func (h *CompletionHandler) ToggleCompletionHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	routineID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	completed, err := h.Service.ToggleCompletion(r.Context(), routineID, userID)
	if err != nil {
		logger.Log.Errorf("Failed to toggle completion: %v", err)
		respondError(w, err, "Failed to toggle completion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

// GET /completions?date=YYYY-MM-DD
func (h *CompletionHandler) GetCompletionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	completions, err := h.Service.GetCompletionsForDate(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		logger.Log.Errorf("Failed to fetch completions: %v", err)
		respondError(w, err, "Failed to get completions")
		return
	}
	writeJSON(w, http.StatusOK, completions)
}
