package commands

import (
	"context"

	"crowdship/internal/core/domain/model/delivery"
)

// GenerateConfirmationCodeCommandHandler stores a freshly generated numeric
// code on the delivery, resetting the consumed flag and the attempt counter.
type GenerateConfirmationCodeCommandHandler struct {
	uowFactory DeliveryUoWFactory
	codeLength int
}

// NewGenerateConfirmationCodeCommandHandler creates a handler for code
// generation.
func NewGenerateConfirmationCodeCommandHandler(
	uowFactory DeliveryUoWFactory,
	codeLength int,
) GenerateConfirmationCodeCommandHandler {
	return GenerateConfirmationCodeCommandHandler{
		uowFactory: uowFactory,
		codeLength: codeLength,
	}
}

// Handle generates and persists the code. The aggregate enforces that only
// the bound requester may generate and that the delivery is not terminal.
func (h GenerateConfirmationCodeCommandHandler) Handle(ctx context.Context, command GenerateConfirmationCodeCommand) error {
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

	repo := uow.DeliveryRepository()

	d, err := repo.Get(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	if err := d.SetConfirmationCode(command.RequesterID(), delivery.NewConfirmationCode(h.codeLength)); err != nil {
		return err
	}

	if err := repo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
