package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shift is a work shift (morning, evening, ...) that routines belong to.
type Shift struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	ColorCode  string             `bson:"color_code" json:"color_code"`
	Icon       string             `bson:"icon,omitempty" json:"icon,omitempty"`
	OrderIndex int                `bson:"order_index" json:"order_index"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Section groups routines inside a shift for display purposes.
type Section struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShiftID    primitive.ObjectID `bson:"shift_id" json:"shift_id"`
	Name       string             `bson:"name" json:"name"`
	OrderIndex int                `bson:"order_index" json:"order_index"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
