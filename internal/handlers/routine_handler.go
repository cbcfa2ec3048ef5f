package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/services"
	"github.com/askelund/routine-manager/pkg/logger"
	"github.com/askelund/routine-manager/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoutineHandler struct {
	Service *services.RoutineService
}

func NewRoutineHandler(service *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{Service: service}
}

type routinePayload struct {
	ShiftID             string `json:"shift_id"`
	SectionID           string `json:"section_id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Priority            int    `json:"priority"`
	OrderIndex          int    `json:"order_index"`
	MultimediaURL       string `json:"multimedia_url"`
	Notify              bool   `json:"notify"`
	NotificationMessage string `json:"notification_message"`
}

// GET /shifts/{id}/routines
func (h *RoutineHandler) GetRoutinesHandler(w http.ResponseWriter, r *http.Request) {
	shiftID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}

	routines, err := h.Service.GetRoutinesByShift(r.Context(), shiftID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch routines: %v", err)
		respondError(w, err, "Failed to get routines")
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

// POST /routines (admin)
func (h *RoutineHandler) CreateRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload routinePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	shiftID, err := primitive.ObjectIDFromHex(payload.ShiftID)
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}
	actor, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	routine := &models.Routine{
		ShiftID:       shiftID,
		Title:         payload.Title,
		Description:   payload.Description,
		Priority:      payload.Priority,
		OrderIndex:    payload.OrderIndex,
		MultimediaURL: payload.MultimediaURL,
	}
	if payload.SectionID != "" {
		sectionID, err := primitive.ObjectIDFromHex(payload.SectionID)
		if err != nil {
			http.Error(w, "Invalid section ID", http.StatusBadRequest)
			return
		}
		routine.SectionID = &sectionID
	}

	input := services.RoutineInput{
		Routine:             routine,
		Notify:              payload.Notify,
		NotificationMessage: payload.NotificationMessage,
	}
	created, err := h.Service.CreateRoutine(r.Context(), input, actor)
	if err != nil {
		logger.Log.Errorf("Failed to create routine: %v", err)
		if created != nil {
			// Routine exists, only the notification failed.
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"routine": created,
				"warning": "routine created but notification failed",
			})
			return
		}
		respondError(w, err, "Failed to create routine")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT /routines/{id} (admin)
func (h *RoutineHandler) UpdateRoutineHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}
	actor, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var payload routinePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	update := map[string]interface{}{
		"title":          payload.Title,
		"description":    payload.Description,
		"priority":       payload.Priority,
		"order_index":    payload.OrderIndex,
		"multimedia_url": payload.MultimediaURL,
	}
	if payload.SectionID != "" {
		sectionID, err := primitive.ObjectIDFromHex(payload.SectionID)
		if err != nil {
			http.Error(w, "Invalid section ID", http.StatusBadRequest)
			return
		}
		update["section_id"] = sectionID
	}

	input := services.RoutineInput{
		Notify:              payload.Notify,
		NotificationMessage: payload.NotificationMessage,
	}
	if err := h.Service.UpdateRoutine(r.Context(), id, update, input, actor); err != nil {
		logger.Log.Errorf("Failed to update routine: %v", err)
		respondError(w, err, "Failed to update routine")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Routine updated"})
}

// DELETE /routines/{id} (admin)
func (h *RoutineHandler) DeleteRoutineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteRoutine(r.Context(), id); err != nil {
		logger.Log.Errorf("Failed to delete routine: %v", err)
		respondError(w, err, "Failed to delete routine")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Routine deleted"})
}
