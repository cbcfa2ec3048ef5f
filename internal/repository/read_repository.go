package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/askelund/routine-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReadRepository owns the two read-record collections. Announcements and
// routine notifications keep separate collections (matching the source
// schema), but both flow through the same insert and lookup code, only the
// collection and foreign-key field differ.
type ReadRepository struct {
	announcements *mongo.Collection
	routines      *mongo.Collection
}

func NewReadRepository(db *mongo.Database) *ReadRepository {
	return &ReadRepository{
		announcements: db.Collection("announcements_read"),
		routines:      db.Collection("routine_notifications_read"),
	}
}

// collectionFor resolves the collection and foreign-key field for a
// notification type.
func (r *ReadRepository) collectionFor(notificationType string) (*mongo.Collection, string, error) {
	switch notificationType {
	case models.NotificationTypeAnnouncement:
		return r.announcements, "announcement_id", nil
	case models.NotificationTypeRoutine:
		return r.routines, "notification_id", nil
	default:
		return nil, "", fmt.Errorf("unknown notification type %q: %w", notificationType, models.ErrNotFound)
	}
}

// InsertRead writes one read record. The read_at timestamp is assigned here
// at write time; callers cannot supply their own. A duplicate pair surfaces
// as ErrDuplicate, which the service treats as success.
func (r *ReadRepository) InsertRead(ctx context.Context, notificationType string, notificationID, userID primitive.ObjectID) error {
	collection, fkField, err := r.collectionFor(notificationType)
	if err != nil {
		return err
	}

	doc := bson.M{
		fkField:   notificationID,
		"user_id": userID,
		"read_at": time.Now(),
	}
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert read record: %w", wrapWriteErr(err))
	}
	return nil
}

// GetReadSet returns the ids of the notifications of one type the user has
// read, as a set for O(1) membership tests during partitioning.
func (r *ReadRepository) GetReadSet(ctx context.Context, notificationType string, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	collection, fkField, err := r.collectionFor(notificationType)
	if err != nil {
		return nil, err
	}

	cursor, err := collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch read records: %w", models.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	readSet := make(map[primitive.ObjectID]struct{})
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode read record: %v", err)
		}
		if id, ok := doc[fkField].(primitive.ObjectID); ok {
			readSet[id] = struct{}{}
		}
	}
	return readSet, nil
}

// DeleteReadsByNotification removes the read records of one parent
// notification (the delete cascade).
func (r *ReadRepository) DeleteReadsByNotification(ctx context.Context, notificationType string, notificationID primitive.ObjectID) error {
	collection, fkField, err := r.collectionFor(notificationType)
	if err != nil {
		return err
	}

	if _, err := collection.DeleteMany(ctx, bson.M{fkField: notificationID}); err != nil {
		return fmt.Errorf("failed to delete read records: %w", models.ErrUnavailable)
	}
	return nil
}
