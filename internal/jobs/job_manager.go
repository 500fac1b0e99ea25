package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	verificationExpiryJob  *VerificationExpiryJob
	notificationCleanupJob *NotificationCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireVerificationsHandler commands.ExpireVerificationsCommandHandler,
	purgeNotificationsHandler commands.PurgeNotificationsCommandHandler,
	notificationRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		verificationExpiryJob:  NewVerificationExpiryJob(expireVerificationsHandler, logger),
		notificationCleanupJob: NewNotificationCleanupJob(purgeNotificationsHandler, notificationRetention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.verificationExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start verification expiry job: %w", err)
	}

	if err := jm.notificationCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.verificationExpiryJob.Stop()
		return fmt.Errorf("failed to start notification cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationCleanupJob.Stop()
	jm.verificationExpiryJob.Stop()
}
