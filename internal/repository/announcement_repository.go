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

// AnnouncementRepository handles database operations for announcements.
type AnnouncementRepository struct {
	collection *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{
		collection: db.Collection("announcements"),
	}
}

// CreateAnnouncement inserts a new announcement.
func (r *AnnouncementRepository) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) (*models.Announcement, error) {
	announcement.CreatedAt = time.Now()
	announcement.UpdatedAt = announcement.CreatedAt

	result, err := r.collection.InsertOne(ctx, announcement)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert announcement")
		return nil, fmt.Errorf("failed to create announcement: %w", wrapWriteErr(err))
	}
	announcement.ID = result.InsertedID.(primitive.ObjectID)
	return announcement, nil
}

// GetAnnouncementByID retrieves a single announcement.
func (r *AnnouncementRepository) GetAnnouncementByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&announcement); err != nil {
		return nil, fmt.Errorf("failed to find announcement: %w", wrapFindErr(err))
	}
	return &announcement, nil
}

// GetAnnouncementsSince returns announcements created at or after the cutoff,
// newest first. The inclusive bound matters: an announcement stamped exactly
// at account creation is still eligible.
func (r *AnnouncementRepository) GetAnnouncementsSince(ctx context.Context, cutoff time.Time) ([]models.Announcement, error) {
	filter := bson.M{"created_at": bson.M{"$gte": cutoff}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch announcements: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var announcements []models.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, fmt.Errorf("failed to decode announcements: %v", err)
	}
	return announcements, nil
}

// GetAllAnnouncements returns every announcement, newest first.
func (r *AnnouncementRepository) GetAllAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return r.GetAnnouncementsSince(ctx, time.Time{})
}

// DeleteAnnouncement removes an announcement. Read-record cascade is owned
// by the service.
func (r *AnnouncementRepository) DeleteAnnouncement(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", models.ErrUnavailable)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("failed to delete announcement: %w", models.ErrNotFound)
	}
	return nil
}
