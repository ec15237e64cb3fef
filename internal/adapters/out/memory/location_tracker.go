// Package memory provides an in-process ports.LocationTracker for tests and
// single-node runs without Redis.
package memory

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

// LocationTracker keeps current locations in a sync.Map keyed by delivery
// id. Each entry is an atomic pointer updated with a CAS loop, so writers
// for the same delivery resolve by timestamp and writers for different
// deliveries never contend.
type LocationTracker struct {
	entries sync.Map // delivery id string -> *atomic.Pointer[delivery.Position]
}

// NewLocationTracker creates an empty tracker.
func NewLocationTracker() *LocationTracker {
	return &LocationTracker{}
}

// Update applies the position if it is strictly newer than the stored one.
func (t *LocationTracker) Update(
	_ context.Context,
	deliveryID kernel.UUID,
	position delivery.Position,
) (bool, error) {
	entry, _ := t.entries.LoadOrStore(deliveryID.String(), atomic.NewPointer[delivery.Position](nil))
	pointer := entry.(*atomic.Pointer[delivery.Position])

	for {
		stored := pointer.Load()
		if !position.IsNewerThan(stored) {
			return false, nil
		}
		next := position
		if pointer.CompareAndSwap(stored, &next) {
			return true, nil
		}
		// Lost the CAS to a concurrent writer; re-check against the winner.
	}
}

// Current returns the last winning position, or nil.
func (t *LocationTracker) Current(_ context.Context, deliveryID kernel.UUID) (*delivery.Position, error) {
	entry, ok := t.entries.Load(deliveryID.String())
	if !ok {
		return nil, nil
	}

	stored := entry.(*atomic.Pointer[delivery.Position]).Load()
	if stored == nil {
		return nil, nil
	}

	copied := *stored
	return &copied, nil
}
