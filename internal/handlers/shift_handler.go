package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/services"
	"github.com/askelund/routine-manager/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShiftHandler struct {
	Service *services.ShiftService
}

func NewShiftHandler(service *services.ShiftService) *ShiftHandler {
	return &ShiftHandler{Service: service}
}

// GET /shifts
func (h *ShiftHandler) GetShiftsHandler(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Service.GetAllShifts(r.Context())
	if err != nil {
		logger.Log.Errorf("Failed to fetch shifts: %v", err)
		respondError(w, err, "Failed to get shifts")
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

// POST /shifts (admin)
func (h *ShiftHandler) CreateShiftHandler(w http.ResponseWriter, r *http.Request) {
	var shift models.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateShift(r.Context(), &shift)
	if err != nil {
		logger.Log.Errorf("Failed to create shift: %v", err)
		respondError(w, err, "Failed to create shift")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT /shifts/{id} (admin)
func (h *ShiftHandler) UpdateShiftHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}

	var update map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	delete(update, "_id")

	if err := h.Service.UpdateShift(r.Context(), id, update); err != nil {
		logger.Log.Errorf("Failed to update shift: %v", err)
		respondError(w, err, "Failed to update shift")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Shift updated"})
}

// DELETE /shifts/{id} (admin)
func (h *ShiftHandler) DeleteShiftHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteShift(r.Context(), id); err != nil {
		logger.Log.Errorf("Failed to delete shift: %v", err)
		respondError(w, err, "Failed to delete shift")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Shift deleted"})
}
