// Package jobs provides scheduled background tasks, built on
// github.com/robfig/cron/v3 and coordinated through JobManager.
package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"crowdship/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	announcementExpiryJob *AnnouncementExpiryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireHandler commands.ExpireAnnouncementsCommandHandler,
	announcementRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		announcementExpiryJob: NewAnnouncementExpiryJob(expireHandler, announcementRetention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.announcementExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start announcement expiry job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.announcementExpiryJob.Stop()
}
