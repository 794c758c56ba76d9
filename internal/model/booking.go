package model

import "time"

// Booking statuses.  A booking is created CONFIRMED by the atomic
// confirm transaction and can only move to CANCELLED afterwards.  The
// row itself is never deleted; cancelled bookings remain as an audit
// trail.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Payment statuses recorded on a booking.  The engine performs no
// payment processing; it only records what the payment collaborator
// reported at confirmation time.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusCaptured = "CAPTURED"
)

// Booking is the permanent record of a confirmed purchase.  It is
// created in the same transaction that transitions its seats from
// HELD to BOOKED, so a booking without booked seats (or booked seats
// without a booking) is never observable.
//
// Fields:
//  ID                  – primary key identifier.
//  Reference           – short human readable reference code.
//  EventID             – event the booked seats belong to.
//  HolderID            – buyer who confirmed the booking.
//  Status              – CONFIRMED or CANCELLED.
//  PaymentStatus       – payment state reported by the collaborator.
//  TotalSeats          – number of seats in the snapshot.
//  BaseAmountCents     – sum of the seats' prices at confirmation.
//  FeesAmountCents     – service fees applied by the fee policy.
//  TaxAmountCents      – tax portion (zero unless a policy sets it).
//  DiscountAmountCents – discount portion (zero unless a policy sets it).
//  TotalAmountCents    – amount actually charged.
//  CancelReason        – optional reason supplied at cancellation.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Booking struct {
	ID                  uint64    // bookings.id
	Reference           string    // bookings.reference
	EventID             uint64    // bookings.event_id
	HolderID            uint64    // bookings.holder_id
	Status              string    // bookings.status
	PaymentStatus       string    // bookings.payment_status
	TotalSeats          int       // bookings.total_seats
	BaseAmountCents     uint32    // bookings.base_amount_cents
	FeesAmountCents     uint32    // bookings.fees_amount_cents
	TaxAmountCents      uint32    // bookings.tax_amount_cents
	DiscountAmountCents uint32    // bookings.discount_amount_cents
	TotalAmountCents    uint32    // bookings.total_amount_cents
	CancelReason        *string   // bookings.cancel_reason
	CreatedAt           time.Time // bookings.created_at
	UpdatedAt           time.Time // bookings.updated_at
}

// BookingSeat is one entry of a booking's seat snapshot: the seat's
// identity, placement and price frozen at confirmation time.  The
// snapshot stays valid even if seat pricing later changes, and it is
// the only source cancellation may use to find the seats to free.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – booking this snapshot entry belongs to.
//  SeatID     – the seat that was booked.
//  Label      – seat label at confirmation time.
//  Section    – section at confirmation time.
//  RowLabel   – row at confirmation time.
//  SeatNumber – number within the row at confirmation time.
//  PriceCents – price charged for this seat.
type BookingSeat struct {
	ID         uint64 // booking_seats.id
	BookingID  uint64 // booking_seats.booking_id
	SeatID     uint64 // booking_seats.seat_id
	Label      string // booking_seats.label
	Section    string // booking_seats.section
	RowLabel   string // booking_seats.row_label
	SeatNumber uint32 // booking_seats.seat_number
	PriceCents uint32 // booking_seats.price_cents
}
