// Package jobs provides scheduled background tasks for the dispatch
// coordinator.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order lifecycle.
//
// # Available Jobs
//
// 1. VerificationExpiryJob - Runs every minute to close verification requests
// whose decision window passed without a customer decision
// 2. NotificationCleanupJob - Runs daily to purge read notifications older
// than the retention period
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireHandler, purgeHandler, retention, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The expiry sweep commits nothing when no request is past its deadline
// - Job errors are logged and the next run proceeds on schedule
// - Failed job starts will stop any already running jobs
package jobs
