package cron

import (
	"context"
	"time"

	"github.com/askelund/routine-manager/internal/repository"
	"github.com/askelund/routine-manager/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// completionRetentionDays is how long per-day check-off rows are kept. The
// dashboard only renders the current day, so old rows are dead weight.
const completionRetentionDays = 60

// StartCleanupJobs schedules the nightly maintenance work.
func StartCleanupJobs(completionRepo *repository.CompletionRepository) {
	c := cron.New()

	c.AddFunc("0 3 * * *", func() {
		cutoff := services.ShiftDate(time.Now().AddDate(0, 0, -completionRetentionDays))
		if _, err := completionRepo.DeleteCompletionsBefore(context.Background(), cutoff); err != nil {
			logrus.WithError(err).Error("Completion pruning failed")
		}
	})

	c.Start()
}
