package services

import (
	"context"
	"fmt"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineService encapsulates routine management. Creating or editing a
// routine with notify enabled writes a RoutineNotification event row, which
// is what the notification aggregator later picks up.
type RoutineService struct {
	repo           *repository.RoutineRepository
	notifRepo      *repository.NotificationRepository
	readRepo       *repository.ReadRepository
	completionRepo *repository.CompletionRepository
}

func NewRoutineService(repo *repository.RoutineRepository, notifRepo *repository.NotificationRepository, readRepo *repository.ReadRepository, completionRepo *repository.CompletionRepository) *RoutineService {
	return &RoutineService{
		repo:           repo,
		notifRepo:      notifRepo,
		readRepo:       readRepo,
		completionRepo: completionRepo,
	}
}

// RoutineInput carries the fields of a create/update request plus the
// optional notification.
type RoutineInput struct {
	Routine             *models.Routine
	Notify              bool
	NotificationMessage string
}

// CreateRoutine adds a routine and, when requested, a notification event.
func (s *RoutineService) CreateRoutine(ctx context.Context, input RoutineInput, actor primitive.ObjectID) (*models.Routine, error) {
	if input.Routine.Title == "" {
		return nil, fmt.Errorf("routine title is required")
	}

	created, err := s.repo.CreateRoutine(ctx, input.Routine)
	if err != nil {
		return nil, err
	}

	if input.Notify {
		if err := s.createNotification(ctx, created, input.NotificationMessage, actor); err != nil {
			// The routine itself is in place; the missing notification is
			// logged and reported so the admin can resend.
			return created, fmt.Errorf("routine created but notification failed: %v", err)
		}
	}
	return created, nil
}

// UpdateRoutine applies a partial update and optionally notifies employees
// about the change.
func (s *RoutineService) UpdateRoutine(ctx context.Context, id primitive.ObjectID, update map[string]interface{}, input RoutineInput, actor primitive.ObjectID) error {
	if err := s.repo.UpdateRoutine(ctx, id, update); err != nil {
		return err
	}

	if input.Notify {
		routine, err := s.repo.GetRoutineByID(ctx, id)
		if err != nil {
			return fmt.Errorf("routine updated but notification failed: %v", err)
		}
		if err := s.createNotification(ctx, routine, input.NotificationMessage, actor); err != nil {
			return fmt.Errorf("routine updated but notification failed: %v", err)
		}
	}
	return nil
}

func (s *RoutineService) createNotification(ctx context.Context, routine *models.Routine, message string, actor primitive.ObjectID) error {
	if message == "" {
		message = fmt.Sprintf("Routine \"%s\" was updated", routine.Title)
	}

	notif := &models.RoutineNotification{
		RoutineID: routine.ID,
		ShiftID:   routine.ShiftID,
		Message:   message,
		CreatedBy: &actor,
	}
	if err := s.notifRepo.CreateNotification(ctx, notif); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"routineID": routine.ID.Hex(),
		"shiftID":   routine.ShiftID.Hex(),
	}).Info("Routine notification published")
	return nil
}

// GetRoutine returns one routine.
func (s *RoutineService) GetRoutine(ctx context.Context, id primitive.ObjectID) (*models.Routine, error) {
	return s.repo.GetRoutineByID(ctx, id)
}

// GetRoutinesByShift lists a shift's routines in display order.
func (s *RoutineService) GetRoutinesByShift(ctx context.Context, shiftID primitive.ObjectID) ([]models.Routine, error) {
	return s.repo.GetRoutinesByShift(ctx, shiftID)
}

// DeleteRoutine removes a routine and cascades: its notifications, their
// read records, and its completions all go with it.
func (s *RoutineService) DeleteRoutine(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.DeleteRoutine(ctx, id); err != nil {
		return err
	}
	return s.cascadeRoutine(ctx, id)
}

// DeleteRoutinesByShift removes every routine of a shift with the same
// cascade. Used when a shift is deleted.
func (s *RoutineService) DeleteRoutinesByShift(ctx context.Context, shiftID primitive.ObjectID) error {
	ids, err := s.repo.DeleteRoutinesByShift(ctx, shiftID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.cascadeRoutine(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *RoutineService) cascadeRoutine(ctx context.Context, routineID primitive.ObjectID) error {
	notifIDs, err := s.notifRepo.DeleteNotificationsByRoutine(ctx, routineID)
	if err != nil {
		return err
	}
	for _, notifID := range notifIDs {
		if err := s.readRepo.DeleteReadsByNotification(ctx, models.NotificationTypeRoutine, notifID); err != nil {
			return err
		}
	}
	if err := s.completionRepo.DeleteCompletionsByRoutine(ctx, routineID); err != nil {
		return err
	}

	logrus.WithField("routineID", routineID.Hex()).Info("Routine deleted with cascade")
	return nil
}
