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

// NotificationRepository handles database operations for routine
// notifications (the event rows written when a routine changes with
// "notify" enabled).
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("routine_notifications"),
	}
}

// CreateNotification inserts a new routine notification.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.RoutineNotification) error {
	notif.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert routine notification")
		return fmt.Errorf("failed to create notification: %w", wrapWriteErr(err))
	}
	return nil
}

// GetNotificationByID retrieves a single routine notification.
func (r *NotificationRepository) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.RoutineNotification, error) {
	var notif models.RoutineNotification
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notif); err != nil {
		return nil, fmt.Errorf("failed to find notification: %w", wrapFindErr(err))
	}
	return &notif, nil
}

// GetNotificationsSince returns routine notifications created at or after
// the cutoff, newest first. The bound is inclusive, matching announcement
// eligibility.
func (r *NotificationRepository) GetNotificationsSince(ctx context.Context, cutoff time.Time) ([]models.RoutineNotification, error) {
	filter := bson.M{"created_at": bson.M{"$gte": cutoff}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var notifications []models.RoutineNotification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %v", err)
	}
	return notifications, nil
}

// DeleteNotification removes a routine notification.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", models.ErrUnavailable)
	}
	return nil
}

// DeleteNotificationsByRoutine removes the notifications of a routine and
// returns their ids so the caller can cascade to read records.
func (r *NotificationRepository) DeleteNotificationsByRoutine(ctx context.Context, routineID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"routine_id": routineID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for routine: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notification ids: %v", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	if _, err := r.collection.DeleteMany(ctx, bson.M{"routine_id": routineID}); err != nil {
		return nil, fmt.Errorf("failed to delete notifications for routine: %w", models.ErrUnavailable)
	}
	return ids, nil
}
