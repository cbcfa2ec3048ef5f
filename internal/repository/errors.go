package repository

import (
	"errors"

	"github.com/askelund/routine-manager/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// wrapFindErr maps driver errors from single-document lookups onto the
// shared taxonomy: a missing document is NotFound, anything else means the
// store could not answer.
func wrapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return models.ErrUnavailable
}

// wrapWriteErr maps insert/update failures. A unique-index rejection becomes
// ErrDuplicate so callers can decide whether it is fatal.
func wrapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return models.ErrUnavailable
}
