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

type SectionHandler struct {
	Service *services.SectionService
}

func NewSectionHandler(service *services.SectionService) *SectionHandler {
	return &SectionHandler{Service: service}
}

// GET /shifts/{id}/sections
func (h *SectionHandler) GetSectionsHandler(w http.ResponseWriter, r *http.Request) {
	shiftID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}

	sections, err := h.Service.GetSectionsByShift(r.Context(), shiftID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch sections: %v", err)
		respondError(w, err, "Failed to get sections")
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// POST /sections (admin)
func (h *SectionHandler) CreateSectionHandler(w http.ResponseWriter, r *http.Request) {
	var section models.Section
	if err := json.NewDecoder(r.Body).Decode(&section); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateSection(r.Context(), &section)
	if err != nil {
		logger.Log.Errorf("Failed to create section: %v", err)
		respondError(w, err, "Failed to create section")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT /sections/{id} (admin)
func (h *SectionHandler) UpdateSectionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid section ID", http.StatusBadRequest)
		return
	}

	var update map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	delete(update, "_id")

	if err := h.Service.UpdateSection(r.Context(), id, update); err != nil {
		logger.Log.Errorf("Failed to update section: %v", err)
		respondError(w, err, "Failed to update section")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Section updated"})
}

// DELETE /sections/{id} (admin)
func (h *SectionHandler) DeleteSectionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid section ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteSection(r.Context(), id); err != nil {
		logger.Log.Errorf("Failed to delete section: %v", err)
		respondError(w, err, "Failed to delete section")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Section deleted"})
}
