package booking

import "context"

// AvailabilityChecker answers whether a table is free for a window.
// Cancelled and completed reservations never block a slot; an optional
// exclude id lets updates check a reservation against everything but
// itself.
type AvailabilityChecker struct {
    Reservations ReservationStore
}

// NewAvailabilityChecker constructs an AvailabilityChecker.
func NewAvailabilityChecker(reservations ReservationStore) *AvailabilityChecker {
    if reservations == nil {
        panic("nil reservation store passed to NewAvailabilityChecker")
    }
    return &AvailabilityChecker{Reservations: reservations}
}

// IsOverlapping reports whether any non-terminal reservation on the
// table overlaps the window under half-open semantics.  Read-only;
// store failures propagate unchanged.
func (a *AvailabilityChecker) IsOverlapping(ctx context.Context, tableID uint64, w TimeWindow, excludeID uint64) (bool, error) {
    if err := w.Validate(); err != nil {
        return false, err
    }
    return a.Reservations.ExistsOverlapping(ctx, tableID, w, excludeID)
}
