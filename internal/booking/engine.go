package booking

import (
    "context"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Booking policy limits.
const (
    // MinDurationMinutes is the shortest reservation the engine accepts.
    MinDurationMinutes = 30
    // MaxGuests caps the party size independent of table capacity.
    MaxGuests = 50
)

// Engine orchestrates reservation use cases.  It validates the actor
// and referenced entities, delegates conflict detection to the
// availability checker and price computation to the pricing engine,
// and enforces the status state machine.  Every entry point takes the
// acting user id explicitly; nothing is read from ambient state.
type Engine struct {
    Users        UserStore
    Clients      ClientStore
    Tables       TableStore
    Types        TableTypeStore
    Reservations ReservationStore
    Pricing      *PricingEngine
    Availability *AvailabilityChecker

    // Now returns the current time; overridable in tests.
    Now func() time.Time
}

// NewEngine wires an Engine from its collaborators.  All arguments must
// be non-nil.
func NewEngine(users UserStore, clients ClientStore, tables TableStore, types TableTypeStore, reservations ReservationStore, pricing *PricingEngine, availability *AvailabilityChecker) *Engine {
    if users == nil || clients == nil || tables == nil || types == nil || reservations == nil || pricing == nil || availability == nil {
        panic("nil dependency passed to NewEngine")
    }
    return &Engine{
        Users:        users,
        Clients:      clients,
        Tables:       tables,
        Types:        types,
        Reservations: reservations,
        Pricing:      pricing,
        Availability: availability,
        Now:          time.Now,
    }
}

// CreateRequest carries the inputs for a new reservation.
type CreateRequest struct {
    ActorID  uint64
    ClientID uint64
    TableID  uint64
    Window   TimeWindow
    Guests   int
    Notes    string
}

// Create runs the ordered create validation chain and persists a new
// PENDING reservation.  The first failing check wins so error responses
// stay deterministic.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
    actor, err := e.Users.GetByID(ctx, req.ActorID)
    if err != nil {
        if err == ErrNotExists {
            return nil, Unauthenticated("acting user not found")
        }
        return nil, err
    }
    if !actor.IsActive {
        return nil, Unauthenticated("acting user is inactive")
    }

    client, err := e.Clients.GetByID(ctx, req.ClientID)
    if err != nil && err != ErrNotExists {
        return nil, err
    }
    if err == ErrNotExists || !client.IsActive() {
        return nil, NotFound("Client not found or inactive")
    }

    table, err := e.Tables.GetByID(ctx, req.TableID)
    if err != nil && err != ErrNotExists {
        return nil, err
    }
    if err == ErrNotExists || !table.IsActive() {
        return nil, NotFound("Table not found or inactive")
    }

    tt, err := e.Types.GetByID(ctx, table.TableTypeID)
    if err != nil && err != ErrNotExists {
        return nil, err
    }
    if err == ErrNotExists || !tt.IsActive {
        return nil, Validation("table type is not available for booking")
    }

    if req.Guests < 1 || req.Guests > MaxGuests {
        return nil, Validation("number of guests must be between 1 and %d", MaxGuests)
    }
    if req.Guests > table.Capacity {
        return nil, Validation("number of guests exceeds table capacity (%d)", table.Capacity)
    }

    if err := req.Window.Validate(); err != nil {
        return nil, err
    }
    busy, err := e.Availability.IsOverlapping(ctx, req.TableID, req.Window, 0)
    if err != nil {
        return nil, err
    }
    if busy {
        return nil, Conflict("Table is already booked for the requested time window")
    }

    quote, err := e.Pricing.Quote(ctx, req.TableID, req.Window)
    if err != nil {
        return nil, err
    }

    if req.Window.DurationMinutes() < MinDurationMinutes {
        return nil, Validation("reservation must last at least %d minutes", MinDurationMinutes)
    }
    now := e.Now().UTC()
    if !req.Window.StartsAfter(now) {
        return nil, Validation("reservation must start in the future")
    }
    if quote.BasePrice < 0 || quote.TotalPrice < 0 {
        return nil, Validation("computed price must not be negative")
    }

    r := &model.Reservation{
        ClientID:        req.ClientID,
        TableID:         req.TableID,
        CreatedByUserID: req.ActorID,
        Date:            req.Window.Date,
        StartMinutes:    req.Window.Start,
        EndMinutes:      req.Window.End,
        Guests:          req.Guests,
        BasePrice:       quote.BasePrice,
        TotalPrice:      quote.TotalPrice,
        Status:          model.StatusPending,
        Notes:           req.Notes,
        CreatedAt:       now,
        UpdatedAt:       now,
    }
    if err := e.Reservations.Create(ctx, r); err != nil {
        if err == ErrOverlap {
            return nil, Conflict("Table is already booked for the requested time window")
        }
        return nil, err
    }
    return r, nil
}

// Patch is a partial update request.  Nil fields keep their current
// value; the merge never mutates the loaded reservation in place.
type Patch struct {
    TableID *uint64
    Date    *time.Time
    Start   *int
    End     *int
    Guests  *int
    Notes   *string
    Status  *model.ReservationStatus
}

// apply returns a copy of r with the patch fields merged in.
func (p Patch) apply(r model.Reservation) model.Reservation {
    if p.TableID != nil {
        r.TableID = *p.TableID
    }
    if p.Date != nil {
        r.Date = Midnight(*p.Date)
    }
    if p.Start != nil {
        r.StartMinutes = *p.Start
    }
    if p.End != nil {
        r.EndMinutes = *p.End
    }
    if p.Guests != nil {
        r.Guests = *p.Guests
    }
    if p.Notes != nil {
        r.Notes = *p.Notes
    }
    if p.Status != nil {
        r.Status = *p.Status
    }
    return r
}

// reschedules reports whether the patch touches any field that affects
// the occupancy window or the table, which forces a fresh availability
// check and repricing.
func (p Patch) reschedules(current model.Reservation) bool {
    if p.TableID != nil && *p.TableID != current.TableID {
        return true
    }
    if p.Date != nil && !Midnight(*p.Date).Equal(current.Date) {
        return true
    }
    if p.Start != nil && *p.Start != current.StartMinutes {
        return true
    }
    if p.End != nil && *p.End != current.EndMinutes {
        return true
    }
    return false
}

// Update applies a patch to an existing reservation.  A stale optimistic
// write is retried once against a fresh read before surfacing as a
// conflict.
func (e *Engine) Update(ctx context.Context, actorID, reservationID uint64, patch Patch) (*model.Reservation, error) {
    if err := e.requireActor(ctx, actorID); err != nil {
        return nil, err
    }
    updated, err := e.updateOnce(ctx, reservationID, patch)
    if err == ErrStale {
        updated, err = e.updateOnce(ctx, reservationID, patch)
        if err == ErrStale {
            return nil, Conflict("reservation was modified concurrently")
        }
    }
    return updated, err
}

func (e *Engine) updateOnce(ctx context.Context, reservationID uint64, patch Patch) (*model.Reservation, error) {
    current, err := e.Reservations.GetByID(ctx, reservationID)
    if err != nil {
        if err == ErrNotExists {
            return nil, NotFound("Reservation not found")
        }
        return nil, err
    }
    if current.Status.IsTerminal() {
        // A terminal state has no outbound transitions, so a status
        // change gets the transition error; any other edit gets the
        // generic terminal guard.
        if patch.Status != nil && *patch.Status != current.Status {
            return nil, InvalidTransition(current.Status, *patch.Status)
        }
        return nil, Validation("cannot modify cancelled or completed reservations")
    }

    merged := patch.apply(*current)
    tableChanged := merged.TableID != current.TableID

    table, err := e.Tables.GetByID(ctx, merged.TableID)
    if err != nil && err != ErrNotExists {
        return nil, err
    }
    if err == ErrNotExists || (tableChanged && !table.IsActive()) {
        return nil, NotFound("Table not found or inactive")
    }
    if tableChanged {
        tt, err := e.Types.GetByID(ctx, table.TableTypeID)
        if err != nil && err != ErrNotExists {
            return nil, err
        }
        if err == ErrNotExists || !tt.IsActive {
            return nil, Validation("table type is not available for booking")
        }
    }

    if merged.Guests < 1 || merged.Guests > MaxGuests {
        return nil, Validation("number of guests must be between 1 and %d", MaxGuests)
    }
    if merged.Guests > table.Capacity {
        return nil, Validation("number of guests exceeds table capacity (%d)", table.Capacity)
    }

    rescheduled := patch.reschedules(*current)
    if rescheduled {
        w := NewTimeWindow(merged.Date, merged.StartMinutes, merged.EndMinutes)
        if err := w.Validate(); err != nil {
            return nil, err
        }
        if w.DurationMinutes() < MinDurationMinutes {
            return nil, Validation("reservation must last at least %d minutes", MinDurationMinutes)
        }
        busy, err := e.Availability.IsOverlapping(ctx, merged.TableID, w, current.ID)
        if err != nil {
            return nil, err
        }
        if busy {
            return nil, Conflict("Table is already booked for the requested time window")
        }
        quote, err := e.Pricing.Quote(ctx, merged.TableID, w)
        if err != nil {
            return nil, err
        }
        merged.BasePrice = quote.BasePrice
        merged.TotalPrice = quote.TotalPrice
    }

    if patch.Status != nil && *patch.Status != current.Status {
        if !(*patch.Status).IsValid() {
            return nil, Validation("unknown reservation status %q", string(*patch.Status))
        }
        if !CanTransition(current.Status, *patch.Status) {
            return nil, InvalidTransition(current.Status, *patch.Status)
        }
    }

    merged.UpdatedAt = e.Now().UTC()
    if err := e.Reservations.Update(ctx, &merged, rescheduled); err != nil {
        if err == ErrOverlap {
            return nil, Conflict("Table is already booked for the requested time window")
        }
        return nil, err
    }
    return &merged, nil
}

// Cancel marks a reservation CANCELLED.  Allowed from any non-terminal
// state; cancelling twice is rejected without touching the row.
func (e *Engine) Cancel(ctx context.Context, actorID, reservationID uint64) error {
    if err := e.requireActor(ctx, actorID); err != nil {
        return err
    }
    err := e.cancelOnce(ctx, reservationID)
    if err == ErrStale {
        err = e.cancelOnce(ctx, reservationID)
        if err == ErrStale {
            return Conflict("reservation was modified concurrently")
        }
    }
    return err
}

func (e *Engine) cancelOnce(ctx context.Context, reservationID uint64) error {
    r, err := e.Reservations.GetByID(ctx, reservationID)
    if err != nil {
        if err == ErrNotExists {
            return NotFound("Reservation not found")
        }
        return err
    }
    if r.Status == model.StatusCancelled {
        return Validation("Reservation is already cancelled")
    }
    if r.Status == model.StatusCompleted {
        return Validation("cannot modify cancelled or completed reservations")
    }
    r.Status = model.StatusCancelled
    r.UpdatedAt = e.Now().UTC()
    return e.Reservations.Update(ctx, r, false)
}

// CheckAvailability is the standalone availability sub-operation used by
// listing features outside the booking flows.
func (e *Engine) CheckAvailability(ctx context.Context, tableID uint64, w TimeWindow, excludeID uint64) (bool, error) {
    busy, err := e.Availability.IsOverlapping(ctx, tableID, w, excludeID)
    if err != nil {
        return false, err
    }
    return !busy, nil
}

// CalculatePrice exposes the pricing engine as a standalone operation.
func (e *Engine) CalculatePrice(ctx context.Context, tableID uint64, w TimeWindow) (Quote, error) {
    return e.Pricing.Quote(ctx, tableID, w)
}

// requireActor resolves the acting user and checks the account is
// active.
func (e *Engine) requireActor(ctx context.Context, actorID uint64) error {
    actor, err := e.Users.GetByID(ctx, actorID)
    if err != nil {
        if err == ErrNotExists {
            return Unauthenticated("acting user not found")
        }
        return err
    }
    if !actor.IsActive {
        return Unauthenticated("acting user is inactive")
    }
    return nil
}
