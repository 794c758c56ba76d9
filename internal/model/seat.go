package model

import "time"

// Seat statuses.  A seat moves AVAILABLE → HELD when a reservation
// attempt claims it, HELD → BOOKED when the hold is confirmed, and
// back to AVAILABLE when a hold is released, expires or a booking is
// cancelled.
const (
	SeatStatusAvailable = "AVAILABLE"
	SeatStatusHeld      = "HELD"
	SeatStatusBooked    = "BOOKED"
)

// Seat describes a single sellable seat for a scheduled event.  There
// is exactly one row per physical seat per event.  The hold fields are
// populated only while the seat is held; a BOOKED seat carries no hold
// metadata.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – event to which this seat belongs.
//  Section           – section designation within the venue.
//  RowLabel          – letter or string designating the row.
//  SeatNumber        – number of the seat within the row.
//  Label             – human readable label (e.g. "A-12").
//  BasePriceCents    – list price in cents when the seat was seeded.
//  CurrentPriceCents – price in cents charged at hold time.
//  Status            – lifecycle status (AVAILABLE, HELD, BOOKED).
//  HolderID          – buyer currently holding the seat (nullable).
//  HoldToken         – opaque token of the active hold (nullable).
//  HoldExpiresAt     – when the active hold lapses (nullable).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Seat struct {
	ID                uint64     // seats.id
	EventID           uint64     // seats.event_id
	Section           string     // seats.section
	RowLabel          string     // seats.row_label
	SeatNumber        uint32     // seats.seat_number
	Label             string     // seats.label
	BasePriceCents    uint32     // seats.base_price_cents
	CurrentPriceCents uint32     // seats.current_price_cents
	Status            string     // seats.status
	HolderID          *uint64    // seats.holder_id (nullable)
	HoldToken         *string    // seats.hold_token (nullable)
	HoldExpiresAt     *time.Time // seats.hold_expires_at (nullable)
	CreatedAt         time.Time  // seats.created_at
	UpdatedAt         time.Time  // seats.updated_at
}

// HoldStale reports whether the seat carries a hold whose deadline has
// already passed at the given instant.  Such a seat must be treated as
// available by any writer; the store folds this check into its
// conditional updates so readers never act on a stale hold directly.
func (s *Seat) HoldStale(now time.Time) bool {
	return s.Status == SeatStatusHeld && s.HoldExpiresAt != nil && !s.HoldExpiresAt.After(now)
}
