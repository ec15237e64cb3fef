package delivery

import (
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// Source tells which channel produced a position update.
type Source int

const (
	SourceUnknown Source = iota
	SourcePush
	SourcePoll
)

func sourceStrings() map[Source]string {
	return map[Source]string{
		SourceUnknown: "UNKNOWN",
		SourcePush:    "PUSH",
		SourcePoll:    "POLL",
	}
}

func (s Source) Validate() error {
	if s == SourceUnknown {
		return errs.NewValueIsRequiredError("position source")
	}
	if _, ok := sourceStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("position source",
			fmt.Errorf("%d is not a known source", int(s)))
	}
	return nil
}

func (s Source) String() string {
	if name, ok := sourceStrings()[s]; ok {
		return name
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// SourceFromString parses the wire name of a source.
func SourceFromString(name string) (Source, error) {
	for src, n := range sourceStrings() {
		if n == name {
			return src, nil
		}
	}
	return SourceUnknown, errs.NewValueIsInvalidErrorWithCause("position source",
		fmt.Errorf("%q is not a known source", name))
}

// Position is a single location update for a delivery. Updates are retained
// append-only for path reconstruction; only the newest one by RecordedAt wins
// the current-location pointer.
type Position struct {
	point      kernel.GeoPoint
	accuracyM  *float64
	heading    *float64
	speedKmh   *float64
	recordedAt time.Time
	source     Source
}

// NewPosition validates the coordinates and the source.
func NewPosition(
	point kernel.GeoPoint,
	accuracyM *float64,
	heading *float64,
	speedKmh *float64,
	recordedAt time.Time,
	source Source,
) (Position, error) {
	if err := point.Validate(); err != nil {
		return Position{}, err
	}
	if err := source.Validate(); err != nil {
		return Position{}, err
	}
	if recordedAt.IsZero() {
		return Position{}, errs.NewValueIsRequiredError("recordedAt")
	}

	return Position{
		point:      point,
		accuracyM:  accuracyM,
		heading:    heading,
		speedKmh:   speedKmh,
		recordedAt: recordedAt,
		source:     source,
	}, nil
}

func (p Position) Point() kernel.GeoPoint { return p.point }
func (p Position) AccuracyM() *float64    { return p.accuracyM }
func (p Position) Heading() *float64      { return p.heading }
func (p Position) SpeedKmh() *float64     { return p.speedKmh }
func (p Position) RecordedAt() time.Time  { return p.recordedAt }
func (p Position) Source() Source         { return p.source }

// IsNewerThan implements monotonic-timestamp-wins reconciliation. A position
// with an equal or older timestamp loses.
func (p Position) IsNewerThan(other *Position) bool {
	return other == nil || p.recordedAt.After(other.recordedAt)
}
