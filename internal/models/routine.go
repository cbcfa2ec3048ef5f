package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a recurring task employees check off once per shift date.
type Routine struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ShiftID       primitive.ObjectID  `bson:"shift_id" json:"shift_id"`
	SectionID     *primitive.ObjectID `bson:"section_id,omitempty" json:"section_id,omitempty"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	Priority      int                 `bson:"priority" json:"priority"`
	OrderIndex    int                 `bson:"order_index" json:"order_index"`
	MultimediaURL string              `bson:"multimedia_url,omitempty" json:"multimedia_url,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// RoutineContext is the subset of routine fields a notification is displayed
// with. Kept separate so a deleted routine simply yields a nil context.
type RoutineContext struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Priority    int                `bson:"priority" json:"priority"`
}

// TaskCompletion records that a user checked off a routine on a given shift
// date. The (routine_id, user_id, shift_date) triple is unique, so toggling
// twice in one day never produces two rows.
type TaskCompletion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID   primitive.ObjectID `bson:"routine_id" json:"routine_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	ShiftDate   string             `bson:"shift_date" json:"shift_date"` // YYYY-MM-DD
	CompletedAt time.Time          `bson:"completed_at" json:"completed_at"`
}
