package booking

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// transitions is the exhaustive table of legal status changes.  The
// terminal states COMPLETED and CANCELLED have no outbound entries.
// Cancellation is deliberately absent: it goes through Engine.Cancel,
// not a generic status update.
var transitions = map[model.ReservationStatus][]model.ReservationStatus{
    model.StatusPending:   {model.StatusConfirmed},
    model.StatusConfirmed: {model.StatusCompleted},
    model.StatusCompleted: {},
    model.StatusCancelled: {},
}

// CanTransition reports whether a reservation may move from one status
// to another via a generic status update.
func CanTransition(from, to model.ReservationStatus) bool {
    for _, next := range transitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

// InvalidTransition builds the validation error surfaced when a status
// change is rejected, carrying both endpoints for the message.
func InvalidTransition(from, to model.ReservationStatus) *Error {
    return Validation("Invalid status transition from %s to %s", from, to)
}
