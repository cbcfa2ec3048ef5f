package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CompletionRepository handles database operations for task completions.
type CompletionRepository struct {
	collection *mongo.Collection
}

func NewCompletionRepository(db *mongo.Database) *CompletionRepository {
	return &CompletionRepository{
		collection: db.Collection("task_completions"),
	}
}

// InsertCompletion records a check-off. The unique index on
// (routine_id, user_id, shift_date) rejects a second insert for the same
// day; that surfaces as ErrDuplicate for the service to swallow.
func (r *CompletionRepository) InsertCompletion(ctx context.Context, completion *models.TaskCompletion) error {
	completion.CompletedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, completion)
	if err != nil {
		return fmt.Errorf("failed to insert completion: %w", wrapWriteErr(err))
	}
	return nil
}

// DeleteCompletion removes a check-off (the un-toggle path). Returns the
// number of rows removed so the caller knows whether anything was checked.
func (r *CompletionRepository) DeleteCompletion(ctx context.Context, routineID, userID primitive.ObjectID, shiftDate string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"routine_id": routineID,
		"user_id":    userID,
		"shift_date": shiftDate,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete completion: %w", models.ErrUnavailable)
	}
	return result.DeletedCount, nil
}

// GetCompletionsForDate returns a user's completions on a shift date.
func (r *CompletionRepository) GetCompletionsForDate(ctx context.Context, userID primitive.ObjectID, shiftDate string) ([]models.TaskCompletion, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "shift_date": shiftDate})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completions: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var completions []models.TaskCompletion
	if err := cursor.All(ctx, &completions); err != nil {
		return nil, fmt.Errorf("failed to decode completions: %v", err)
	}
	return completions, nil
}

// DeleteCompletionsByRoutine removes all completions of a routine (cascade).
func (r *CompletionRepository) DeleteCompletionsByRoutine(ctx context.Context, routineID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"routine_id": routineID})
	if err != nil {
		return fmt.Errorf("failed to delete completions for routine: %w", models.ErrUnavailable)
	}
	return nil
}

// DeleteCompletionsBefore prunes completion rows older than the cutoff date.
// Used by the nightly cleanup job.
func (r *CompletionRepository) DeleteCompletionsBefore(ctx context.Context, shiftDate string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"shift_date": bson.M{"$lt": shiftDate}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune completions: %w", models.ErrUnavailable)
	}
	logrus.Infof("Pruned %d old task completions", result.DeletedCount)
	return result.DeletedCount, nil
}
