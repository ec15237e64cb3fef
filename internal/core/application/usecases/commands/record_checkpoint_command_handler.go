package commands

import (
	"context"
	"time"
)

// RecordCheckpointCommandHandler appends a checkpoint to a delivery. The
// history is append-only; checkpoints are never mutated afterwards.
type RecordCheckpointCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewRecordCheckpointCommandHandler creates a handler for checkpoint
// recording.
func NewRecordCheckpointCommandHandler(uowFactory DeliveryUoWFactory) RecordCheckpointCommandHandler {
	return RecordCheckpointCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle builds the checkpoint stamped with the current time and appends it
// through the aggregate, which enforces courier ownership.
func (h RecordCheckpointCommandHandler) Handle(ctx context.Context, command RecordCheckpointCommand) error {
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

	cp, err := command.Checkpoint().toCheckpoint(time.Now().UTC())
	if err != nil {
		return err
	}

	if err := d.AddCheckpoint(command.CourierID(), cp); err != nil {
		return err
	}

	if err := repo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
