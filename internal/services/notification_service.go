package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// The notification feed used to be assembled independently by every screen
// that rendered it (banner, tab, badge). This service is the single owner of
// that logic: eligibility filtering, merging the two sources, read-state
// partitioning and idempotent mark-as-read.

// UserStore resolves the user whose created_at anchors eligibility.
type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AnnouncementStore supplies eligible announcements.
type AnnouncementStore interface {
	GetAnnouncementsSince(ctx context.Context, cutoff time.Time) ([]models.Announcement, error)
}

// RoutineNotificationStore supplies eligible routine notifications.
type RoutineNotificationStore interface {
	GetNotificationsSince(ctx context.Context, cutoff time.Time) ([]models.RoutineNotification, error)
}

// RoutineContextStore hydrates routine notifications with display context.
type RoutineContextStore interface {
	GetRoutineContexts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.RoutineContext, error)
}

// ReadStore persists and reports per-user read records.
type ReadStore interface {
	InsertRead(ctx context.Context, notificationType string, notificationID, userID primitive.ObjectID) error
	GetReadSet(ctx context.Context, notificationType string, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error)
}

// NotificationService aggregates announcements and routine notifications
// into one per-user feed and tracks which items each user has read.
type NotificationService struct {
	users         UserStore
	announcements AnnouncementStore
	notifications RoutineNotificationStore
	routines      RoutineContextStore
	reads         ReadStore
}

func NewNotificationService(users UserStore, announcements AnnouncementStore, notifications RoutineNotificationStore, routines RoutineContextStore, reads ReadStore) *NotificationService {
	return &NotificationService{
		users:         users,
		announcements: announcements,
		notifications: notifications,
		routines:      routines,
		reads:         reads,
	}
}

// ListNotifications builds the complete feed for a user: every notification
// with created_at >= the user's created_at, partitioned into unread and
// read, newest first.
//
// The user lookup fails closed: when the user cannot be resolved there is no
// eligibility cutoff, and an empty feed must never stand in for "could not
// determine eligibility". Any source fetch failing fails the whole
// aggregation for the same reason; a partial feed is never returned.
func (s *NotificationService) ListNotifications(ctx context.Context, userID primitive.ObjectID) (*models.NotificationFeed, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user for feed: %w", err)
	}
	cutoff := user.CreatedAt

	var (
		announcements []models.Announcement
		notifications []models.RoutineNotification
		readAnns      map[primitive.ObjectID]struct{}
		readNotifs    map[primitive.ObjectID]struct{}
	)

	// The four fetches are independent; only latency benefits from running
	// them together.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		announcements, err = s.announcements.GetAnnouncementsSince(gctx, cutoff)
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = s.notifications.GetNotificationsSince(gctx, cutoff)
		return err
	})
	g.Go(func() error {
		var err error
		readAnns, err = s.reads.GetReadSet(gctx, models.NotificationTypeAnnouncement, userID)
		return err
	})
	g.Go(func() error {
		var err error
		readNotifs, err = s.reads.GetReadSet(gctx, models.NotificationTypeRoutine, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate notifications: %w", err)
	}

	// Hydrate routine context. A routine deleted after its notification was
	// written is tolerated: the item stays in the feed with Routine nil.
	routineIDs := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		routineIDs = append(routineIDs, n.RoutineID)
	}
	contexts, err := s.routines.GetRoutineContexts(ctx, routineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate notifications: %w", err)
	}

	items := make([]models.NotificationItem, 0, len(announcements)+len(notifications))
	for _, a := range announcements {
		items = append(items, models.NotificationItem{
			Type:      models.NotificationTypeAnnouncement,
			ID:        a.ID,
			Title:     a.Title,
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
		})
	}
	for _, n := range notifications {
		items = append(items, models.NotificationItem{
			Type:      models.NotificationTypeRoutine,
			ID:        n.ID,
			Message:   n.Message,
			Routine:   contexts[n.RoutineID],
			ShiftID:   n.ShiftID,
			CreatedAt: n.CreatedAt,
		})
	}

	// Newest first; equal timestamps fall back to id then type so the order
	// is deterministic.
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.ID != b.ID {
			return a.ID.Hex() > b.ID.Hex()
		}
		return a.Type < b.Type
	})

	feed := &models.NotificationFeed{
		Unread: make([]models.NotificationItem, 0, len(items)),
		Read:   make([]models.NotificationItem, 0),
	}
	for _, item := range items {
		if isRead(item, readAnns, readNotifs) {
			feed.Read = append(feed.Read, item)
		} else {
			feed.Unread = append(feed.Unread, item)
		}
	}
	feed.UnreadCount = len(feed.Unread)

	return feed, nil
}

// isRead is the membership test against the already-fetched read sets. The
// notification type picks the set; ids alone are ambiguous across sources.
func isRead(item models.NotificationItem, readAnns, readNotifs map[primitive.ObjectID]struct{}) bool {
	switch item.Type {
	case models.NotificationTypeAnnouncement:
		_, ok := readAnns[item.ID]
		return ok
	default:
		_, ok := readNotifs[item.ID]
		return ok
	}
}

// UnreadCount returns how many eligible notifications the user has not read,
// for badge rendering.
func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int, error) {
	feed, err := s.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	return feed.UnreadCount, nil
}

// MarkRead records that the user has read one notification. The operation is
// idempotent: the unique (notification, user) index rejects a second insert
// and that rejection is treated as success, so rapid double-clicks never
// surface an error. The read_at timestamp is assigned by the store at write
// time.
func (s *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, notificationType string, notificationID primitive.ObjectID) error {
	if notificationType != models.NotificationTypeAnnouncement && notificationType != models.NotificationTypeRoutine {
		return fmt.Errorf("unknown notification type %q: %w", notificationType, models.ErrNotFound)
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to resolve user for mark-read: %w", err)
	}

	err := s.reads.InsertRead(ctx, notificationType, notificationID, userID)
	if errors.Is(err, models.ErrDuplicate) {
		// Already read. Nothing to do, and nothing to report.
		logrus.WithFields(logrus.Fields{
			"userID":         userID.Hex(),
			"type":           notificationType,
			"notificationID": notificationID.Hex(),
		}).Debug("Read record already exists")
		return nil
	}
	return err
}
