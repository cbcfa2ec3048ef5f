package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func oid(n int) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(fmt.Sprintf("%024x", n))
	if err != nil {
		panic(err)
	}
	return id
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
	err   error
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

type fakeAnnouncementStore struct {
	items []models.Announcement
	err   error
}

func (f *fakeAnnouncementStore) GetAnnouncementsSince(_ context.Context, cutoff time.Time) ([]models.Announcement, error) {
	if f.err != nil {
		return nil, f.err
	}
	var eligible []models.Announcement
	for _, a := range f.items {
		if !a.CreatedAt.Before(cutoff) {
			eligible = append(eligible, a)
		}
	}
	return eligible, nil
}

type fakeRoutineNotificationStore struct {
	items []models.RoutineNotification
	err   error
}

func (f *fakeRoutineNotificationStore) GetNotificationsSince(_ context.Context, cutoff time.Time) ([]models.RoutineNotification, error) {
	if f.err != nil {
		return nil, f.err
	}
	var eligible []models.RoutineNotification
	for _, n := range f.items {
		if !n.CreatedAt.Before(cutoff) {
			eligible = append(eligible, n)
		}
	}
	return eligible, nil
}

type fakeRoutineContextStore struct {
	contexts map[primitive.ObjectID]*models.RoutineContext
	err      error
}

func (f *fakeRoutineContextStore) GetRoutineContexts(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.RoutineContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[primitive.ObjectID]*models.RoutineContext)
	for _, id := range ids {
		if rc, ok := f.contexts[id]; ok {
			result[id] = rc
		}
	}
	return result, nil
}

type fakeReadStore struct {
	reads     map[string]map[primitive.ObjectID]struct{}
	inserts   int
	insertErr error
}

func newFakeReadStore() *fakeReadStore {
	return &fakeReadStore{reads: map[string]map[primitive.ObjectID]struct{}{
		models.NotificationTypeAnnouncement: {},
		models.NotificationTypeRoutine:      {},
	}}
}

func (f *fakeReadStore) InsertRead(_ context.Context, notificationType string, notificationID, _ primitive.ObjectID) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	set := f.reads[notificationType]
	if _, exists := set[notificationID]; exists {
		return models.ErrDuplicate
	}
	set[notificationID] = struct{}{}
	f.inserts++
	return nil
}

func (f *fakeReadStore) GetReadSet(_ context.Context, notificationType string, _ primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	set := make(map[primitive.ObjectID]struct{}, len(f.reads[notificationType]))
	for id := range f.reads[notificationType] {
		set[id] = struct{}{}
	}
	return set, nil
}

type fixture struct {
	users         *fakeUserStore
	announcements *fakeAnnouncementStore
	notifications *fakeRoutineNotificationStore
	routines      *fakeRoutineContextStore
	reads         *fakeReadStore
	service       *NotificationService
	userID        primitive.ObjectID
}

func newFixture(userCreatedAt time.Time) *fixture {
	userID := oid(1)
	f := &fixture{
		users: &fakeUserStore{users: map[primitive.ObjectID]*models.User{
			userID: {ID: userID, Name: "Mia", CreatedAt: userCreatedAt},
		}},
		announcements: &fakeAnnouncementStore{},
		notifications: &fakeRoutineNotificationStore{},
		routines:      &fakeRoutineContextStore{contexts: map[primitive.ObjectID]*models.RoutineContext{}},
		reads:         newFakeReadStore(),
		userID:        userID,
	}
	f.service = NewNotificationService(f.users, f.announcements, f.notifications, f.routines, f.reads)
	return f
}

func TestListNotificationsEligibilityCutoff(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	f.announcements.items = []models.Announcement{
		{ID: oid(10), Title: "before", CreatedAt: createdAt.Add(-time.Second)},
		{ID: oid(11), Title: "exact", CreatedAt: createdAt},
		{ID: oid(12), Title: "after", CreatedAt: createdAt.Add(time.Second)},
	}

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)

	titles := make([]string, 0, len(feed.Unread))
	for _, item := range feed.Unread {
		titles = append(titles, item.Title)
	}
	// The cutoff is inclusive: an announcement stamped at the exact instant
	// the account was created is still visible.
	assert.Equal(t, []string{"after", "exact"}, titles)
	assert.Equal(t, 2, feed.UnreadCount)
}

func TestListNotificationsUserNotFound(t *testing.T) {
	f := newFixture(time.Now())

	feed, err := f.service.ListNotifications(context.Background(), oid(99))
	assert.Nil(t, feed)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListNotificationsMergeOrdering(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	f.notifications.items = []models.RoutineNotification{
		{ID: oid(20), RoutineID: oid(40), Message: "older routine change", CreatedAt: createdAt.Add(time.Hour)},
	}
	f.announcements.items = []models.Announcement{
		{ID: oid(21), Title: "newer announcement", CreatedAt: createdAt.Add(2 * time.Hour)},
	}

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, feed.Unread, 2)
	assert.Equal(t, models.NotificationTypeAnnouncement, feed.Unread[0].Type)
	assert.Equal(t, models.NotificationTypeRoutine, feed.Unread[1].Type)
}

func TestListNotificationsTieBreakDeterministic(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamp := createdAt.Add(time.Minute)
	f := newFixture(createdAt)

	f.announcements.items = []models.Announcement{
		{ID: oid(30), Title: "a", CreatedAt: stamp},
		{ID: oid(31), Title: "b", CreatedAt: stamp},
	}
	f.notifications.items = []models.RoutineNotification{
		{ID: oid(32), RoutineID: oid(40), Message: "r", CreatedAt: stamp},
	}

	first, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)
	second, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, first.Unread, second.Unread)
	// Higher id sorts first on equal timestamps.
	assert.Equal(t, oid(32), first.Unread[0].ID)
	assert.Equal(t, oid(31), first.Unread[1].ID)
	assert.Equal(t, oid(30), first.Unread[2].ID)
}

func TestListNotificationsCompositeIdentity(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	// An announcement and a routine notification sharing the same raw id.
	shared := oid(50)
	f.announcements.items = []models.Announcement{
		{ID: shared, Title: "announcement", CreatedAt: createdAt.Add(time.Hour)},
	}
	f.notifications.items = []models.RoutineNotification{
		{ID: shared, RoutineID: oid(40), Message: "routine", CreatedAt: createdAt.Add(2 * time.Hour)},
	}

	// Reading the announcement must not mark the routine notification.
	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeAnnouncement, shared))

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, feed.Unread, 1)
	require.Len(t, feed.Read, 1)
	assert.Equal(t, models.NotificationTypeRoutine, feed.Unread[0].Type)
	assert.Equal(t, models.NotificationTypeAnnouncement, feed.Read[0].Type)
}

func TestListNotificationsPartitionCompleteness(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	for i := 0; i < 5; i++ {
		f.announcements.items = append(f.announcements.items, models.Announcement{
			ID: oid(60 + i), Title: fmt.Sprintf("a%d", i), CreatedAt: createdAt.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeAnnouncement, oid(61)))
	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeAnnouncement, oid(63)))

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Len(t, feed.Unread, 3)
	assert.Len(t, feed.Read, 2)
	assert.Equal(t, 3, feed.UnreadCount)

	seen := make(map[models.NotificationKey]int)
	for _, item := range append(append([]models.NotificationItem{}, feed.Unread...), feed.Read...) {
		seen[item.Key()]++
	}
	for key, count := range seen {
		assert.Equalf(t, 1, count, "item %v appeared %d times", key, count)
	}
	assert.Len(t, seen, 5)
}

func TestListNotificationsDeletedRoutineTolerated(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	f.notifications.items = []models.RoutineNotification{
		{ID: oid(70), RoutineID: oid(71), Message: "routine gone", CreatedAt: createdAt.Add(time.Hour)},
	}
	// No context registered for routine 71: it was deleted.

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, feed.Unread, 1)
	assert.Nil(t, feed.Unread[0].Routine)
	assert.Equal(t, "routine gone", feed.Unread[0].Message)
}

func TestListNotificationsSourceFailureFailsWhole(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	f.announcements.items = []models.Announcement{
		{ID: oid(80), Title: "fine", CreatedAt: createdAt.Add(time.Hour)},
	}
	f.notifications.err = models.ErrUnavailable

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	// One source failing must never yield a partial feed.
	assert.Nil(t, feed)
	assert.ErrorIs(t, err, models.ErrUnavailable)
}

func TestMarkReadIdempotent(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	notifID := oid(90)
	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeRoutine, notifID))
	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeRoutine, notifID))

	assert.Equal(t, 1, f.reads.inserts)
}

func TestMarkReadUnknownType(t *testing.T) {
	f := newFixture(time.Now())

	err := f.service.MarkRead(context.Background(), f.userID, "broadcast", oid(91))
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, f.reads.inserts)
}

func TestMarkReadUnknownUser(t *testing.T) {
	f := newFixture(time.Now())

	err := f.service.MarkRead(context.Background(), oid(99), models.NotificationTypeAnnouncement, oid(92))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMarkReadStoreUnavailable(t *testing.T) {
	f := newFixture(time.Now())
	f.reads.insertErr = models.ErrUnavailable

	err := f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeAnnouncement, oid(93))
	assert.ErrorIs(t, err, models.ErrUnavailable)
}

// The end-to-end scenario: an announcement stamped exactly at account
// creation is eligible, moves to read after MarkRead, and repeated marking
// neither errors nor duplicates it.
func TestMarkReadMovesItemToReadPartition(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(createdAt)

	x := oid(100)
	f.announcements.items = []models.Announcement{
		{ID: x, Title: "X", CreatedAt: createdAt},
		{ID: oid(101), Title: "Y", CreatedAt: createdAt.Add(-time.Second)},
	}

	feed, err := f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, feed.Unread, 1)
	assert.Equal(t, "X", feed.Unread[0].Title)

	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeAnnouncement, x))
	require.NoError(t, f.service.MarkRead(context.Background(), f.userID, models.NotificationTypeAnnouncement, x))

	feed, err = f.service.ListNotifications(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, feed.Unread)
	require.Len(t, feed.Read, 1)
	assert.Equal(t, x, feed.Read[0].ID)
	assert.Equal(t, 0, feed.UnreadCount)

	count, err := f.service.UnreadCount(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
