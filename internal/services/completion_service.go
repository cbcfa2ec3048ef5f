package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionStore is the persistence surface the toggle logic needs.
type CompletionStore interface {
	InsertCompletion(ctx context.Context, completion *models.TaskCompletion) error
	DeleteCompletion(ctx context.Context, routineID, userID primitive.ObjectID, shiftDate string) (int64, error)
	GetCompletionsForDate(ctx context.Context, userID primitive.ObjectID, shiftDate string) ([]models.TaskCompletion, error)
}

// RoutineResolver checks the routine a completion points at.
type RoutineResolver interface {
	GetRoutineByID(ctx context.Context, id primitive.ObjectID) (*models.Routine, error)
}

// CompletionService handles the daily check-off of routines.
type CompletionService struct {
	repo     CompletionStore
	routines RoutineResolver
	now      func() time.Time
}

func NewCompletionService(repo CompletionStore, routines RoutineResolver) *CompletionService {
	return &CompletionService{
		repo:     repo,
		routines: routines,
		now:      time.Now,
	}
}

// ShiftDate formats a timestamp as the YYYY-MM-DD key completions are
// stored under.
func ShiftDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ToggleCompletion flips a routine's checked state for today. Returns true
// when the routine ends up completed, false when the toggle removed an
// existing completion. A concurrent double insert is absorbed by the unique
// index and reported as completed.
func (s *CompletionService) ToggleCompletion(ctx context.Context, routineID, userID primitive.ObjectID) (bool, error) {
	if _, err := s.routines.GetRoutineByID(ctx, routineID); err != nil {
		return false, fmt.Errorf("failed to resolve routine for completion: %w", err)
	}

	today := ShiftDate(s.now())

	deleted, err := s.repo.DeleteCompletion(ctx, routineID, userID, today)
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"routineID": routineID.Hex(),
			"userID":    userID.Hex(),
		}).Info("Task completion removed")
		return false, nil
	}

	completion := &models.TaskCompletion{
		RoutineID: routineID,
		UserID:    userID,
		ShiftDate: today,
	}
	err = s.repo.InsertCompletion(ctx, completion)
	if errors.Is(err, models.ErrDuplicate) {
		// Raced with another toggle; the row exists, which is the state we
		// were about to create.
		return true, nil
	}
	if err != nil {
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"routineID": routineID.Hex(),
		"userID":    userID.Hex(),
	}).Info("Task completed")
	return true, nil
}

// GetCompletionsForDate lists a user's completions for one shift date.
func (s *CompletionService) GetCompletionsForDate(ctx context.Context, userID primitive.ObjectID, shiftDate string) ([]models.TaskCompletion, error) {
	if shiftDate == "" {
		shiftDate = ShiftDate(s.now())
	}
	if _, err := time.Parse("2006-01-02", shiftDate); err != nil {
		return nil, fmt.Errorf("invalid shift date %q: %v", shiftDate, err)
	}
	return s.repo.GetCompletionsForDate(ctx, userID, shiftDate)
}
