// Package queue defines message payloads exchanged over the message
// broker, the publisher that emits them and the background consumer
// for confirmed bookings.
package queue

// Seat event types published to the seat.events queue.
const (
	SeatEventHeld     = "seats.held"
	SeatEventReleased = "seats.released"
	SeatEventBooked   = "seats.booked"
)

// SeatStateEvent is a fire-and-forget notification about a seat state
// transition.  Consumers use it for dashboards and analytics; nothing
// in the reservation flow depends on its delivery.
type SeatStateEvent struct {
	Type     string   `json:"type"`
	Token    string   `json:"token,omitempty"`
	EventID  uint64   `json:"event_id,omitempty"`
	HolderID uint64   `json:"holder_id,omitempty"`
	SeatIDs  []uint64 `json:"seat_ids,omitempty"`
	Seats    int      `json:"seats"`
	At       string   `json:"at"`
}

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It carries enough information for downstream consumers
// to log, notify or trigger analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
	Reference        string   `json:"reference"`
	EventID          uint64   `json:"event_id"`
	HolderID         uint64   `json:"holder_id"`
	SeatLabels       []string `json:"seats"`
	TotalSeats       int      `json:"total_seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
