package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationCleanupJob purges read notifications older than the retention
// period. Runs once a day; unread notifications are never purged.
type NotificationCleanupJob struct {
	handler   commands.PurgeNotificationsCommandHandler
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewNotificationCleanupJob creates a new job for purging old read
// notifications. A zero retention falls back to the command default.
func NewNotificationCleanupJob(
	handler commands.PurgeNotificationsCommandHandler,
	retention time.Duration,
	logger *slog.Logger,
) *NotificationCleanupJob {
	return &NotificationCleanupJob{
		handler:   handler,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "notification_cleanup_job"),
	}
}

// Start begins the cleanup to run daily at 03:00.
func (j *NotificationCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 3 * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewPurgeNotificationsCommand(j.retention)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Notification cleanup misconfigured", "error", cmdErr)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Notification cleanup failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification cleanup job started (running daily)")
	return nil
}

// Stop stops the cleanup job.
func (j *NotificationCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification cleanup job stopped")
}
