package delivery

import (
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// CheckpointType classifies a waypoint in the delivery's execution.
type CheckpointType int

const (
	CheckpointUnknown CheckpointType = iota
	CheckpointPickup
	CheckpointWaypoint
	CheckpointDelivery
	CheckpointCustoms
	CheckpointStorage
)

func checkpointTypeStrings() map[CheckpointType]string {
	return map[CheckpointType]string{
		CheckpointUnknown:  "UNKNOWN",
		CheckpointPickup:   "PICKUP",
		CheckpointWaypoint: "WAYPOINT",
		CheckpointDelivery: "DELIVERY",
		CheckpointCustoms:  "CUSTOMS",
		CheckpointStorage:  "STORAGE",
	}
}

func (t CheckpointType) Validate() error {
	if t == CheckpointUnknown {
		return errs.NewValueIsRequiredError("checkpoint type")
	}
	if _, ok := checkpointTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("checkpoint type",
			fmt.Errorf("%d is not a known checkpoint type", int(t)))
	}
	return nil
}

func (t CheckpointType) String() string {
	if name, ok := checkpointTypeStrings()[t]; ok {
		return name
	}
	return fmt.Sprintf("CheckpointType(%d)", int(t))
}

// CheckpointTypeFromString parses the wire name of a checkpoint type.
func CheckpointTypeFromString(name string) (CheckpointType, error) {
	for ct, n := range checkpointTypeStrings() {
		if n == name {
			return ct, nil
		}
	}
	return CheckpointUnknown, errs.NewValueIsInvalidErrorWithCause("checkpoint type",
		fmt.Errorf("%q is not a known checkpoint type", name))
}

// Checkpoint is an append-only waypoint or proof event in a delivery's
// execution. The planned time supports downstream SLA reporting; actual time
// is stamped when the courier records the event.
type Checkpoint struct {
	id           kernel.UUID
	cType        CheckpointType
	plannedAt    *time.Time
	actualAt     time.Time
	point        *kernel.GeoPoint
	photoURL     string
	signatureURL string
	note         string
}

// NewCheckpoint creates a checkpoint stamped with the actual time of the
// event. Proof references are optional; MarkDelivered enforces their presence
// where the lifecycle requires them.
func NewCheckpoint(
	id kernel.UUID,
	cType CheckpointType,
	plannedAt *time.Time,
	actualAt time.Time,
	point *kernel.GeoPoint,
	photoURL string,
	signatureURL string,
	note string,
) (Checkpoint, error) {
	if err := id.Validate(); err != nil {
		return Checkpoint{}, err
	}
	if err := cType.Validate(); err != nil {
		return Checkpoint{}, err
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Checkpoint{}, err
		}
	}

	return Checkpoint{
		id:           id,
		cType:        cType,
		plannedAt:    plannedAt,
		actualAt:     actualAt,
		point:        point,
		photoURL:     photoURL,
		signatureURL: signatureURL,
		note:         note,
	}, nil
}

func (c Checkpoint) ID() kernel.UUID           { return c.id }
func (c Checkpoint) Type() CheckpointType      { return c.cType }
func (c Checkpoint) PlannedAt() *time.Time     { return c.plannedAt }
func (c Checkpoint) ActualAt() time.Time       { return c.actualAt }
func (c Checkpoint) Point() *kernel.GeoPoint   { return c.point }
func (c Checkpoint) PhotoURL() string          { return c.photoURL }
func (c Checkpoint) SignatureURL() string      { return c.signatureURL }
func (c Checkpoint) Note() string              { return c.note }

// HasProof reports whether the checkpoint carries a photo or signature
// reference.
func (c Checkpoint) HasProof() bool {
	return c.photoURL != "" || c.signatureURL != ""
}
