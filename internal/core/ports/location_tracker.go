package ports

import (
	"context"

	"crowdship/internal/core/domain/model/delivery"
	"crowdship/internal/core/domain/model/kernel"
)

// LocationTracker is the fast-path store for a delivery's current location.
// Implementations reconcile concurrent writers per delivery id with
// compare-and-swap semantics; no global lock is involved.
type LocationTracker interface {
	// Update applies the position if and only if its timestamp is strictly
	// newer than the stored one. It returns true when the position became
	// current, false when it was discarded as stale or duplicate. A
	// discarded update is not an error.
	Update(ctx context.Context, deliveryID kernel.UUID, position delivery.Position) (bool, error)

	// Current returns the last winning position, or nil when none was
	// recorded yet.
	Current(ctx context.Context, deliveryID kernel.UUID) (*delivery.Position, error)
}
