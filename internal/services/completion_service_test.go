package services

import (
	"context"
	"testing"
	"time"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCompletionStore struct {
	rows      map[string]models.TaskCompletion
	insertErr error
}

func key(routineID, userID primitive.ObjectID, date string) string {
	return routineID.Hex() + "/" + userID.Hex() + "/" + date
}

func newFakeCompletionStore() *fakeCompletionStore {
	return &fakeCompletionStore{rows: map[string]models.TaskCompletion{}}
}

func (f *fakeCompletionStore) InsertCompletion(_ context.Context, c *models.TaskCompletion) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	k := key(c.RoutineID, c.UserID, c.ShiftDate)
	if _, exists := f.rows[k]; exists {
		return models.ErrDuplicate
	}
	f.rows[k] = *c
	return nil
}

func (f *fakeCompletionStore) DeleteCompletion(_ context.Context, routineID, userID primitive.ObjectID, date string) (int64, error) {
	k := key(routineID, userID, date)
	if _, exists := f.rows[k]; !exists {
		return 0, nil
	}
	delete(f.rows, k)
	return 1, nil
}

func (f *fakeCompletionStore) GetCompletionsForDate(_ context.Context, userID primitive.ObjectID, date string) ([]models.TaskCompletion, error) {
	var result []models.TaskCompletion
	for _, c := range f.rows {
		if c.UserID == userID && c.ShiftDate == date {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeRoutineResolver struct {
	known map[primitive.ObjectID]bool
}

func (f *fakeRoutineResolver) GetRoutineByID(_ context.Context, id primitive.ObjectID) (*models.Routine, error) {
	if !f.known[id] {
		return nil, models.ErrNotFound
	}
	return &models.Routine{ID: id, Title: "wipe counters"}, nil
}

func newCompletionFixture() (*CompletionService, *fakeCompletionStore) {
	store := newFakeCompletionStore()
	resolver := &fakeRoutineResolver{known: map[primitive.ObjectID]bool{oid(1): true}}
	svc := NewCompletionService(store, resolver)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	svc, store := newCompletionFixture()
	userID := oid(7)

	completed, err := svc.ToggleCompletion(context.Background(), oid(1), userID)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Len(t, store.rows, 1)

	completed, err = svc.ToggleCompletion(context.Background(), oid(1), userID)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Empty(t, store.rows)
}

func TestToggleCompletionUnknownRoutine(t *testing.T) {
	svc, _ := newCompletionFixture()

	_, err := svc.ToggleCompletion(context.Background(), oid(2), oid(7))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggleCompletionDuplicateRaceTreatedAsCompleted(t *testing.T) {
	svc, store := newCompletionFixture()
	store.insertErr = models.ErrDuplicate

	completed, err := svc.ToggleCompletion(context.Background(), oid(1), oid(7))
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestGetCompletionsForDateValidation(t *testing.T) {
	svc, _ := newCompletionFixture()

	_, err := svc.GetCompletionsForDate(context.Background(), oid(7), "15-03-2024")
	assert.Error(t, err)

	// Empty date defaults to today.
	completions, err := svc.GetCompletionsForDate(context.Background(), oid(7), "")
	require.NoError(t, err)
	assert.Empty(t, completions)
}

func TestShiftDateFormat(t *testing.T) {
	assert.Equal(t, "2024-03-15", ShiftDate(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)))
}
