package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type discriminants. Announcement ids and routine notification
// ids come from independent collections, so the bare id is never enough to
// identify an item; every comparison uses the (type, id) pair.
const (
	NotificationTypeAnnouncement = "announcement"
	NotificationTypeRoutine      = "routine"
)

// RoutineNotification is an event row written when a routine is created or
// edited with "notify employees" enabled. Immutable after creation.
type RoutineNotification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RoutineID primitive.ObjectID  `bson:"routine_id" json:"routine_id"`
	ShiftID   primitive.ObjectID  `bson:"shift_id" json:"shift_id"`
	Message   string              `bson:"message" json:"message"`
	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// RoutineNotificationRead mirrors AnnouncementRead for routine notifications.
type RoutineNotificationRead struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NotificationID primitive.ObjectID `bson:"notification_id" json:"notification_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	ReadAt         time.Time          `bson:"read_at" json:"read_at"`
}

// NotificationItem is one entry of the merged feed. Announcements carry
// Title; routine notifications carry Routine context (nil when the parent
// routine has been deleted since).
type NotificationItem struct {
	Type      string             `json:"type"`
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title,omitempty"`
	Message   string             `json:"message"`
	Routine   *RoutineContext    `json:"routine,omitempty"`
	ShiftID   primitive.ObjectID `json:"shift_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Key returns the composite identity of the item.
func (n NotificationItem) Key() NotificationKey {
	return NotificationKey{Type: n.Type, ID: n.ID}
}

// NotificationKey is the composite (type, id) identity used for read-set
// membership tests.
type NotificationKey struct {
	Type string
	ID   primitive.ObjectID
}

// NotificationFeed is the aggregated, partitioned result for one user.
// Unread and Read are each sorted by created_at descending and together
// cover every eligible notification exactly once.
type NotificationFeed struct {
	Unread      []NotificationItem `json:"unread"`
	Read        []NotificationItem `json:"read"`
	UnreadCount int                `json:"unread_count"`
}
