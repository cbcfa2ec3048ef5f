package services

import (
	"context"
	"fmt"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShiftService encapsulates shift management.
type ShiftService struct {
	repo        *repository.ShiftRepository
	sectionRepo *repository.SectionRepository
	routineSvc  *RoutineService
}

func NewShiftService(repo *repository.ShiftRepository, sectionRepo *repository.SectionRepository, routineSvc *RoutineService) *ShiftService {
	return &ShiftService{
		repo:        repo,
		sectionRepo: sectionRepo,
		routineSvc:  routineSvc,
	}
}

// CreateShift adds a new shift.
func (s *ShiftService) CreateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	if shift.Name == "" {
		return nil, fmt.Errorf("shift name is required")
	}
	if shift.ColorCode == "" {
		shift.ColorCode = "#808080"
	}
	return s.repo.CreateShift(ctx, shift)
}

// GetShift returns one shift.
func (s *ShiftService) GetShift(ctx context.Context, id primitive.ObjectID) (*models.Shift, error) {
	return s.repo.GetShiftByID(ctx, id)
}

// GetAllShifts lists shifts in display order.
func (s *ShiftService) GetAllShifts(ctx context.Context) ([]models.Shift, error) {
	return s.repo.GetAllShifts(ctx)
}

// UpdateShift applies a partial update.
func (s *ShiftService) UpdateShift(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	return s.repo.UpdateShift(ctx, id, update)
}

// DeleteShift removes a shift together with its sections and routines
// (including each routine's notifications, read records and completions).
func (s *ShiftService) DeleteShift(ctx context.Context, id primitive.ObjectID) error {
	if err := s.routineSvc.DeleteRoutinesByShift(ctx, id); err != nil {
		return fmt.Errorf("failed to cascade routines for shift: %v", err)
	}
	if err := s.sectionRepo.DeleteSectionsByShift(ctx, id); err != nil {
		return fmt.Errorf("failed to cascade sections for shift: %v", err)
	}
	if err := s.repo.DeleteShift(ctx, id); err != nil {
		return err
	}

	logrus.WithField("shiftID", id.Hex()).Info("Shift deleted with cascade")
	return nil
}
