package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"crowdship/internal/core/application/usecases/commands"
)

// AnnouncementExpiryJob periodically cancels announcements that stayed
// published past the retention window. Racing accepts always win; the sweep
// only closes announcements nobody took.
type AnnouncementExpiryJob struct {
	handler   commands.ExpireAnnouncementsCommandHandler
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAnnouncementExpiryJob creates the expiry sweep. The retention duration
// is how long a published announcement stays open before it expires.
func NewAnnouncementExpiryJob(
	handler commands.ExpireAnnouncementsCommandHandler,
	retention time.Duration,
	logger *slog.Logger,
) *AnnouncementExpiryJob {
	return &AnnouncementExpiryJob{
		handler:   handler,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "announcement_expiry_job"),
	}
}

// Start schedules the sweep to run hourly.
func (j *AnnouncementExpiryJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", j.runOnce)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Announcement expiry job started",
		"retention", j.retention.String())
	return nil
}

func (j *AnnouncementExpiryJob) runOnce() {
	ctx := context.Background()

	cmd, err := commands.NewExpireAnnouncementsCommand(time.Now().UTC().Add(-j.retention))
	if err != nil {
		j.logger.ErrorContext(ctx, "Announcement expiry job misconfigured", "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Announcement expiry sweep failed", "error", err)
	}
}

// Stop stops the sweep.
func (j *AnnouncementExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Announcement expiry job stopped")
}
