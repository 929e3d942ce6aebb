package model

import "time"

// ReservationStatus enumerates the reservation lifecycle states as
// stored in the reservations.status column.
type ReservationStatus string

const (
    StatusPending   ReservationStatus = "PENDING"
    StatusConfirmed ReservationStatus = "CONFIRMED"
    StatusCompleted ReservationStatus = "COMPLETED"
    StatusCancelled ReservationStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known lifecycle states.
func (s ReservationStatus) IsValid() bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
        return true
    }
    return false
}

// IsTerminal reports whether s permits no further changes.  Terminal
// reservations do not count toward table availability.
func (s ReservationStatus) IsTerminal() bool {
    return s == StatusCompleted || s == StatusCancelled
}

// String returns the column representation of the status.
func (s ReservationStatus) String() string { return string(s) }

// Reservation records a client's booking of one table for a time window
// on a single date.  Times are minutes from midnight; the date carries
// no time component.  Version backs the optimistic write check on
// updates.
//
// Fields:
//  ID              – primary key identifier.
//  ClientID        – client the table is booked for.
//  TableID         – table being reserved.
//  CreatedByUserID – staff user who entered the reservation.
//  Date            – calendar date of the booking (UTC midnight).
//  StartMinutes    – occupancy start, minutes from midnight.
//  EndMinutes      – occupancy end, minutes from midnight.
//  Guests          – number of guests, never above the table capacity.
//  BasePrice       – hourly rate × duration at booking time.
//  TotalPrice      – base price after surcharge rules.
//  Status          – lifecycle state.
//  Notes           – free-text staff notes.
//  Version         – row version for optimistic concurrency.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
    ID              uint64            // reservations.id
    ClientID        uint64            // reservations.client_id
    TableID         uint64            // reservations.table_id
    CreatedByUserID uint64            // reservations.created_by_user_id
    Date            time.Time         // reservations.reserved_date
    StartMinutes    int               // reservations.start_time
    EndMinutes      int               // reservations.end_time
    Guests          int               // reservations.number_of_guests
    BasePrice       float64           // reservations.base_price
    TotalPrice      float64           // reservations.total_price
    Status          ReservationStatus // reservations.status
    Notes           string            // reservations.notes
    Version         uint64            // reservations.version
    CreatedAt       time.Time         // reservations.created_at
    UpdatedAt       time.Time         // reservations.updated_at
}
