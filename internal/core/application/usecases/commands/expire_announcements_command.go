package commands

import (
	"errors"
	"time"

	"crowdship/internal/pkg/guard"
)

var (
	ErrExpireAnnouncementsCommandIsNotConstructed = errors.New(
		"ExpireAnnouncementsCommand must be created via NewExpireAnnouncementsCommand constructor",
	)
	ErrCutoffIsRequired = errors.New("cutoff is required")
)

// ExpireAnnouncementsCommand cancels PUBLISHED announcements whose
// publication timestamp is older than the cutoff. Issued by the scheduler.
type ExpireAnnouncementsCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewExpireAnnouncementsCommand creates a command to expire stale
// announcements.
func NewExpireAnnouncementsCommand(cutoff time.Time) (ExpireAnnouncementsCommand, error) {
	if cutoff.IsZero() {
		return ExpireAnnouncementsCommand{}, ErrCutoffIsRequired
	}

	return ExpireAnnouncementsCommand{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireAnnouncementsCommand) Validate() error {
	return c.guard.Validate(ErrExpireAnnouncementsCommandIsNotConstructed)
}

// Cutoff returns the publication timestamp threshold.
func (c ExpireAnnouncementsCommand) Cutoff() time.Time { return c.cutoff }
