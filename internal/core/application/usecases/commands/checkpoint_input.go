package commands

import (
	"time"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

// CheckpointInput carries the caller-supplied fields of a checkpoint. The
// identifier and the actual timestamp are assigned when the checkpoint is
// built.
type CheckpointInput struct {
	Type         delivery.CheckpointType
	PlannedAt    *time.Time
	Point        *kernel.GeoPoint
	PhotoURL     string
	SignatureURL string
	Note         string
}

func (ci CheckpointInput) toCheckpoint(now time.Time) (delivery.Checkpoint, error) {
	return delivery.NewCheckpoint(
		kernel.NewUUID(),
		ci.Type,
		ci.PlannedAt,
		now,
		ci.Point,
		ci.PhotoURL,
		ci.SignatureURL,
		ci.Note,
	)
}
