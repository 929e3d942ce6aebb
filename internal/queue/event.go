// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationBookedEvent is published when a reservation is successfully
// created. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationBookedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	ClientID      uint64  `json:"client_id"`
	ClientName    string  `json:"client_name"`
	TableID       uint64  `json:"table_id"`
	TableCode     string  `json:"table_code"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Guests        int     `json:"guests"`
	TotalPrice    float64 `json:"total_price"`
	BookedAt      string  `json:"booked_at"`
}

// ReservationCancelledEvent is published when a reservation is cancelled.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ClientID      uint64 `json:"client_id"`
	TableID       uint64 `json:"table_id"`
	TableCode     string `json:"table_code"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CancelledAt   string `json:"cancelled_at"`
}
