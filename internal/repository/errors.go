// Package repository provides data access to the seats, bookings and
// events tables.  This file defines the error types shared across the
// repositories and the packages above them.  Seat-state races resolve
// inside the store's atomic conditional updates and surface as these
// ordinary typed failures; nothing concurrency-related ever escapes as
// an untyped error.
package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrHoldExpiredOrNotFound is returned when a hold token is unknown or
// its deadline has passed.  Handlers should instruct the client to
// restart the reservation.
var ErrHoldExpiredOrNotFound = errors.New("hold expired or not found")

// ErrAlreadyConfirmedOrExpired is returned when a confirm attempt finds
// the token's seats no longer held: either a previous confirm already
// consumed the hold or it expired underneath the caller.
var ErrAlreadyConfirmedOrExpired = errors.New("hold already confirmed or expired")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingCancelled is returned when an operation targets a booking
// that has already been cancelled.
var ErrBookingCancelled = errors.New("booking already cancelled")

// ErrEventNotFound is returned when an event lookup matches no row.
var ErrEventNotFound = errors.New("event not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by a different holder.  Handlers should translate
// this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// SeatConflictError reports a hold attempt that could not claim every
// requested seat.  The partial grant has already been rolled back by
// the time this error surfaces; Unavailable names the seats that were
// not available so the client can re-offer alternatives.
type SeatConflictError struct {
	Unavailable []uint64
}

func (e *SeatConflictError) Error() string {
	ids := make([]string, 0, len(e.Unavailable))
	for _, id := range e.Unavailable {
		ids = append(ids, strconv.FormatUint(id, 10))
	}
	return fmt.Sprintf("seats unavailable: [%s]", strings.Join(ids, ","))
}
