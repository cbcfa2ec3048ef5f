package services

import (
	"context"
	"fmt"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionService encapsulates section management.
type SectionService struct {
	repo      *repository.SectionRepository
	shiftRepo *repository.ShiftRepository
}

func NewSectionService(repo *repository.SectionRepository, shiftRepo *repository.ShiftRepository) *SectionService {
	return &SectionService{
		repo:      repo,
		shiftRepo: shiftRepo,
	}
}

// CreateSection adds a section to a shift. The shift must exist.
func (s *SectionService) CreateSection(ctx context.Context, section *models.Section) (*models.Section, error) {
	if section.Name == "" {
		return nil, fmt.Errorf("section name is required")
	}
	if _, err := s.shiftRepo.GetShiftByID(ctx, section.ShiftID); err != nil {
		return nil, fmt.Errorf("failed to resolve shift for section: %w", err)
	}
	return s.repo.CreateSection(ctx, section)
}

// GetSectionsByShift lists a shift's sections in display order.
func (s *SectionService) GetSectionsByShift(ctx context.Context, shiftID primitive.ObjectID) ([]models.Section, error) {
	return s.repo.GetSectionsByShift(ctx, shiftID)
}

// UpdateSection applies a partial update.
func (s *SectionService) UpdateSection(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	return s.repo.UpdateSection(ctx, id, update)
}

// DeleteSection removes a section. Routines keep their section_id pointing
// at the deleted section cleared by the routine service on next edit; the
// dashboard tolerates an unknown section the same way a feed tolerates a
// deleted routine.
func (s *SectionService) DeleteSection(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.DeleteSection(ctx, id)
}
