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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoutineRepository handles database operations related to routines.
type RoutineRepository struct {
	collection *mongo.Collection
}

func NewRoutineRepository(db *mongo.Database) *RoutineRepository {
	return &RoutineRepository{
		collection: db.Collection("routines"),
	}
}

// CreateRoutine inserts a new routine.
func (r *RoutineRepository) CreateRoutine(ctx context.Context, routine *models.Routine) (*models.Routine, error) {
	routine.CreatedAt = time.Now()
	routine.UpdatedAt = routine.CreatedAt

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert routine")
		return nil, fmt.Errorf("failed to create routine: %w", wrapWriteErr(err))
	}
	routine.ID = result.InsertedID.(primitive.ObjectID)
	return routine, nil
}

// GetRoutineByID retrieves a single routine.
func (r *RoutineRepository) GetRoutineByID(ctx context.Context, id primitive.ObjectID) (*models.Routine, error) {
	var routine models.Routine
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&routine); err != nil {
		return nil, fmt.Errorf("failed to find routine: %w", wrapFindErr(err))
	}
	return &routine, nil
}

// GetRoutinesByShift returns the routines of a shift ordered for display.
func (r *RoutineRepository) GetRoutinesByShift(ctx context.Context, shiftID primitive.ObjectID) ([]models.Routine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}, {Key: "priority", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"shift_id": shiftID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routines: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var routines []models.Routine
	if err := cursor.All(ctx, &routines); err != nil {
		return nil, fmt.Errorf("failed to decode routines: %v", err)
	}
	return routines, nil
}

// GetRoutineContexts returns the display context for a set of routine ids.
// Routines deleted since the ids were collected are simply absent from the
// result; callers treat a missing id as "context gone".
func (r *RoutineRepository) GetRoutineContexts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.RoutineContext, error) {
	contexts := make(map[primitive.ObjectID]*models.RoutineContext, len(ids))
	if len(ids) == 0 {
		return contexts, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routine contexts: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rc models.RoutineContext
		if err := cursor.Decode(&rc); err != nil {
			return nil, fmt.Errorf("failed to decode routine context: %v", err)
		}
		contexts[rc.ID] = &rc
	}
	return contexts, nil
}

// UpdateRoutine applies a partial update.
func (r *RoutineRepository) UpdateRoutine(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update routine: %w", wrapWriteErr(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to update routine: %w", models.ErrNotFound)
	}
	return nil
}

// DeleteRoutine removes a routine.
func (r *RoutineRepository) DeleteRoutine(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete routine: %w", models.ErrUnavailable)
	}
	return nil
}

// DeleteRoutinesByShift removes all routines of a shift (shift cascade).
func (r *RoutineRepository) DeleteRoutinesByShift(ctx context.Context, shiftID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"shift_id": shiftID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list routines for shift: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode routine ids: %v", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	if _, err := r.collection.DeleteMany(ctx, bson.M{"shift_id": shiftID}); err != nil {
		return nil, fmt.Errorf("failed to delete routines for shift: %w", models.ErrUnavailable)
	}
	return ids, nil
}
