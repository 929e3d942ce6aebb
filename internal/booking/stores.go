package booking

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Sentinel errors returned by store implementations.  Repositories map
// their driver-level failures (sql.ErrNoRows, duplicate keys, stale
// version checks) onto these so the engine stays driver-free.
var (
    // ErrNotExists is returned by GetByID lookups when no row matches.
    ErrNotExists = errors.New("record not found")
    // ErrOverlap is returned by ReservationStore writes when the atomic
    // in-transaction conflict check finds an overlapping reservation.
    ErrOverlap = errors.New("overlapping reservation")
    // ErrStale is returned by ReservationStore.Update when the row
    // version changed since the reservation was loaded.
    ErrStale = errors.New("stale reservation version")
)

// UserStore resolves acting staff users.
type UserStore interface {
    GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// ClientStore resolves clients reservations are made for.
type ClientStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Client, error)
}

// TableStore resolves tables.
type TableStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Table, error)
}

// TableTypeStore resolves table types.
type TableTypeStore interface {
    GetByID(ctx context.Context, id uint64) (*model.TableType, error)
}

// PricingRuleStore returns the active rules for a table type whose date
// range covers the given date.  Day-of-week and time-of-day matching is
// performed by the pricing engine so the selection stays deterministic
// regardless of storage order.
type PricingRuleStore interface {
    GetApplicable(ctx context.Context, tableTypeID uint64, date time.Time) ([]model.PricingRule, error)
}

// ReservationStore persists reservations.  Create and Update must run
// the overlap re-check and the write inside one transaction (or an
// equivalent atomic check-and-write) so two concurrent requests cannot
// both observe a free slot; they return ErrOverlap when the check
// fails.  Update must verify the row version and return ErrStale on a
// lost update.
type ReservationStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
    // ExistsOverlapping reports whether any non-terminal reservation on
    // the table overlaps the window.  excludeID, when non-zero, names a
    // reservation to skip (checking a reservation against itself).
    ExistsOverlapping(ctx context.Context, tableID uint64, w TimeWindow, excludeID uint64) (bool, error)
    // Create inserts the reservation after an in-transaction overlap
    // re-check, populating ID and timestamps on success.
    Create(ctx context.Context, r *model.Reservation) error
    // Update writes the reservation guarded by its Version column.
    // When checkConflict is true the overlap re-check (excluding the
    // reservation itself) runs in the same transaction.
    Update(ctx context.Context, r *model.Reservation, checkConflict bool) error
}
