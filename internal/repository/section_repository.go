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

// SectionRepository handles database operations related to sections.
type SectionRepository struct {
	collection *mongo.Collection
}

func NewSectionRepository(db *mongo.Database) *SectionRepository {
	return &SectionRepository{
		collection: db.Collection("sections"),
	}
}

// CreateSection inserts a new section.
func (r *SectionRepository) CreateSection(ctx context.Context, section *models.Section) (*models.Section, error) {
	section.CreatedAt = time.Now()
	section.UpdatedAt = section.CreatedAt

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert section")
		return nil, fmt.Errorf("failed to create section: %w", wrapWriteErr(err))
	}
	section.ID = result.InsertedID.(primitive.ObjectID)
	return section, nil
}

// GetSectionsByShift returns the sections of a shift in display order.
func (r *SectionRepository) GetSectionsByShift(ctx context.Context, shiftID primitive.ObjectID) ([]models.Section, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"shift_id": shiftID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sections: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var sections []models.Section
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %v", err)
	}
	return sections, nil
}

// UpdateSection applies a partial update.
func (r *SectionRepository) UpdateSection(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update section: %w", wrapWriteErr(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to update section: %w", models.ErrNotFound)
	}
	return nil
}

// DeleteSection removes a section.
func (r *SectionRepository) DeleteSection(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", models.ErrUnavailable)
	}
	return nil
}

// DeleteSectionsByShift removes all sections of a shift (shift cascade).
func (r *SectionRepository) DeleteSectionsByShift(ctx context.Context, shiftID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"shift_id": shiftID})
	if err != nil {
		return fmt.Errorf("failed to delete sections for shift: %w", models.ErrUnavailable)
	}
	return nil
}
