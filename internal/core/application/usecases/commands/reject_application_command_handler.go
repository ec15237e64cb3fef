package commands

import (
	"context"
	"time"

	"crowdship/internal/pkg/errs"
)

// RejectApplicationCommandHandler declines a pending application on the
// requester's explicit decision.
type RejectApplicationCommandHandler struct {
	uowFactory MatchingUoWFactory
}

// NewRejectApplicationCommandHandler creates a handler for application
// rejection.
func NewRejectApplicationCommandHandler(uowFactory MatchingUoWFactory) RejectApplicationCommandHandler {
	return RejectApplicationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the application and its announcement, checks ownership and
// flips the application to REJECTED.
func (h RejectApplicationCommandHandler) Handle(ctx context.Context, command RejectApplicationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	applicationRepo := uow.ApplicationRepository()

	app, err := applicationRepo.Get(ctx, command.ApplicationID())
	if err != nil {
		return err
	}

	a, err := uow.AnnouncementRepository().Get(ctx, app.AnnouncementID())
	if err != nil {
		return err
	}

	if !a.IsOwnedBy(command.RequesterID()) {
		return errs.NewForbiddenError(command.RequesterID().String(), "reject the application")
	}

	if err := app.Reject(time.Now().UTC()); err != nil {
		return err
	}

	if err := applicationRepo.Update(ctx, app); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
