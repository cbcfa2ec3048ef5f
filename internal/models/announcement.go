package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is a broadcast message written by an admin. It is immutable
// once created; deleting it cascades to its read records.
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AnnouncementRead marks that a user has seen an announcement. At most one
// row exists per (announcement, user) pair, enforced by a unique index.
type AnnouncementRead struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AnnouncementID primitive.ObjectID `bson:"announcement_id" json:"announcement_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	ReadAt         time.Time          `bson:"read_at" json:"read_at"`
}
