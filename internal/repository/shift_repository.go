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

// ShiftRepository handles database operations related to shifts.
type ShiftRepository struct {
	collection *mongo.Collection
}

func NewShiftRepository(db *mongo.Database) *ShiftRepository {
	return &ShiftRepository{
		collection: db.Collection("shifts"),
	}
}

// CreateShift inserts a new shift.
func (r *ShiftRepository) CreateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	shift.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, shift)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert shift")
		return nil, fmt.Errorf("failed to create shift: %w", wrapWriteErr(err))
	}
	shift.ID = result.InsertedID.(primitive.ObjectID)
	return shift, nil
}

// GetShiftByID retrieves a single shift.
func (r *ShiftRepository) GetShiftByID(ctx context.Context, id primitive.ObjectID) (*models.Shift, error) {
	var shift models.Shift
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shift); err != nil {
		return nil, fmt.Errorf("failed to find shift: %w", wrapFindErr(err))
	}
	return &shift, nil
}

// GetAllShifts returns all shifts in display order.
func (r *ShiftRepository) GetAllShifts(ctx context.Context) ([]models.Shift, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var shifts []models.Shift
	if err := cursor.All(ctx, &shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts: %v", err)
	}
	return shifts, nil
}

// UpdateShift applies a partial update.
func (r *ShiftRepository) UpdateShift(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", wrapWriteErr(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to update shift: %w", models.ErrNotFound)
	}
	return nil
}

// DeleteShift removes a shift.
func (r *ShiftRepository) DeleteShift(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", models.ErrUnavailable)
	}
	return nil
}
