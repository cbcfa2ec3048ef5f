package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/askelund/routine-manager/internal/services"
	"github.com/askelund/routine-manager/pkg/logger"
	"github.com/askelund/routine-manager/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnnouncementHandler struct {
	Service *services.AnnouncementService
}

func NewAnnouncementHandler(service *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{Service: service}
}

// POST /announcements (admin)
func (h *AnnouncementHandler) CreateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	createdBy, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	announcement, err := h.Service.CreateAnnouncement(r.Context(), payload.Title, payload.Message, createdBy)
	if err != nil {
		logger.Log.Errorf("Failed to create announcement: %v", err)
		respondError(w, err, "Failed to create announcement")
		return
	}

	writeJSON(w, http.StatusCreated, announcement)
}

// GET /announcements
func (h *AnnouncementHandler) GetAnnouncementsHandler(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.Service.GetAllAnnouncements(r.Context())
	if err != nil {
		logger.Log.Errorf("Failed to fetch announcements: %v", err)
		respondError(w, err, "Failed to get announcements")
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}

// DELETE /announcements/{id} (admin)
func (h *AnnouncementHandler) DeleteAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid announcement ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteAnnouncement(r.Context(), id); err != nil {
		logger.Log.Errorf("Failed to delete announcement: %v", err)
		respondError(w, err, "Failed to delete announcement")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement deleted"})
}
