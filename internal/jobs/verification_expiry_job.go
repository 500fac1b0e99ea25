package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// VerificationExpiryJob closes verification requests whose 24-hour decision
// window passed without a customer decision. Runs every minute.
type VerificationExpiryJob struct {
	handler commands.ExpireVerificationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewVerificationExpiryJob creates a new job for expiring undecided
// verification requests.
func NewVerificationExpiryJob(handler commands.ExpireVerificationsCommandHandler, logger *slog.Logger) *VerificationExpiryJob {
	return &VerificationExpiryJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "verification_expiry_job"),
	}
}

// Start begins the expiry sweep to run every minute.
func (j *VerificationExpiryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewExpireVerificationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Verification expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Verification expiry job started (running every minute)")
	return nil
}

// Stop stops the expiry sweep.
func (j *VerificationExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Verification expiry job stopped")
}
