package services

import (
	"context"
	"fmt"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnnouncementService encapsulates admin announcement management.
type AnnouncementService struct {
	repo     *repository.AnnouncementRepository
	readRepo *repository.ReadRepository
}

func NewAnnouncementService(repo *repository.AnnouncementRepository, readRepo *repository.ReadRepository) *AnnouncementService {
	return &AnnouncementService{
		repo:     repo,
		readRepo: readRepo,
	}
}

// CreateAnnouncement publishes a new announcement.
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, title, message string, createdBy primitive.ObjectID) (*models.Announcement, error) {
	if title == "" || message == "" {
		return nil, fmt.Errorf("announcement title and message are required")
	}

	announcement := &models.Announcement{
		Title:     title,
		Message:   message,
		CreatedBy: createdBy,
	}
	created, err := s.repo.CreateAnnouncement(ctx, announcement)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"announcementID": created.ID.Hex(),
		"createdBy":      createdBy.Hex(),
	}).Info("Announcement published")
	return created, nil
}

// GetAllAnnouncements lists every announcement for the admin screen.
func (s *AnnouncementService) GetAllAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return s.repo.GetAllAnnouncements(ctx)
}

// DeleteAnnouncement removes an announcement and cascades to its read
// records. Mongo has no foreign keys, so the service owns the cascade.
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	if err := s.readRepo.DeleteReadsByNotification(ctx, models.NotificationTypeAnnouncement, id); err != nil {
		logrus.WithError(err).Warnf("Failed to cascade read records for announcement %s", id.Hex())
		return err
	}

	logrus.WithField("announcementID", id.Hex()).Info("Announcement deleted")
	return nil
}
