// Package booking converts a valid hold into a permanent booking and
// handles booking cancellation.  Every mutation runs inside a single
// transaction so neither a partial seat transition nor an orphaned
// booking row can ever commit.
package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/queue"
	"github.com/iliyamo/event-seat-booking/internal/repository"
	"github.com/iliyamo/event-seat-booking/internal/reservation"
)

// Orchestrator drives confirmation and cancellation.
type Orchestrator struct {
	store     Store
	fees      FeePolicy
	holds     *reservation.HoldCache
	publisher *queue.Publisher
}

// NewOrchestrator wires an Orchestrator.  holds and publisher may be
// nil.
func NewOrchestrator(store Store, fees FeePolicy, holds *reservation.HoldCache, publisher *queue.Publisher) *Orchestrator {
	return &Orchestrator{store: store, fees: fees, holds: holds, publisher: publisher}
}

// ConfirmBooking converts the hold identified by token into a booking
// in one transaction: lock and snapshot the held rows, transition them
// to booked, insert the booking and its seat snapshot.  The
// transaction aborts unless every held seat transitioned, so a second
// confirm of the same token (or a confirm of an expired one) fails
// with ErrAlreadyConfirmedOrExpired and changes nothing.  holderID
// must match the hold's owner; paymentStatus is recorded as reported
// by the payment collaborator.
func (o *Orchestrator) ConfirmBooking(ctx context.Context, token string, holderID uint64, paymentStatus string) (*model.Booking, []model.BookingSeat, error) {
	tx, err := o.store.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin confirm tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.HeldSeats(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("read held seats: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, repository.ErrAlreadyConfirmedOrExpired
	}
	if rows[0].HolderID != nil && *rows[0].HolderID != holderID {
		return nil, nil, repository.ErrForbidden
	}

	var base uint32
	snapshot := make([]model.BookingSeat, 0, len(rows))
	for _, s := range rows {
		base += s.CurrentPriceCents
		snapshot = append(snapshot, model.BookingSeat{
			SeatID:     s.ID,
			Label:      s.Label,
			Section:    s.Section,
			RowLabel:   s.RowLabel,
			SeatNumber: s.SeatNumber,
			PriceCents: s.CurrentPriceCents,
		})
	}
	amounts := o.fees.Apply(base, len(rows))

	reference, err := NewReference()
	if err != nil {
		return nil, nil, fmt.Errorf("generate booking reference: %w", err)
	}
	b := &model.Booking{
		Reference:           reference,
		EventID:             rows[0].EventID,
		HolderID:            holderID,
		Status:              model.BookingStatusConfirmed,
		PaymentStatus:       paymentStatus,
		TotalSeats:          len(rows),
		BaseAmountCents:     amounts.BaseCents,
		FeesAmountCents:     amounts.FeesCents,
		TaxAmountCents:      amounts.TaxCents,
		DiscountAmountCents: amounts.DiscountCents,
		TotalAmountCents:    amounts.TotalCents,
	}

	confirmed, err := tx.ConfirmSeats(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("confirm seats: %w", err)
	}
	if confirmed != int64(len(rows)) {
		// The locked read above makes this unreachable in practice;
		// the guard keeps a partial transition from ever committing.
		return nil, nil, repository.ErrAlreadyConfirmedOrExpired
	}
	if err := tx.CreateBooking(ctx, b, snapshot); err != nil {
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit confirm tx: %w", err)
	}
	committed = true

	// The hold's cache mirror is now stale; drop it so verify answers
	// from the seat rows immediately.
	if derr := o.holds.Delete(ctx, token); derr != nil {
		log.Printf("booking: cache delete failed: %v", derr)
	}

	labels := make([]string, 0, len(snapshot))
	seatIDs := make([]uint64, 0, len(snapshot))
	for _, s := range snapshot {
		labels = append(labels, s.Label)
		seatIDs = append(seatIDs, s.SeatID)
	}
	o.publisher.BookingConfirmed(ctx, queue.BookingConfirmedEvent{
		Reference:        b.Reference,
		EventID:          b.EventID,
		HolderID:         b.HolderID,
		SeatLabels:       labels,
		TotalSeats:       b.TotalSeats,
		TotalAmountCents: b.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})
	o.publisher.SeatEvent(ctx, queue.SeatStateEvent{
		Type:     queue.SeatEventBooked,
		EventID:  b.EventID,
		HolderID: b.HolderID,
		SeatIDs:  seatIDs,
		Seats:    len(seatIDs),
	})
	return b, snapshot, nil
}

// CancelBooking cancels a confirmed booking and frees its seats.  The
// seats to free come from the booking's own snapshot, never from a
// live seat query, and the release touches only seats still BOOKED,
// so seats resold through a later hold cycle are left alone.  The
// booking row is kept with status CANCELLED and the optional reason
// recorded on it; cancelling again returns ErrBookingCancelled.
func (o *Orchestrator) CancelBooking(ctx context.Context, reference string, holderID uint64, reason string) (*model.Booking, error) {
	tx, err := o.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := tx.BookingByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if b.HolderID != holderID {
		return nil, repository.ErrForbidden
	}
	if b.Status != model.BookingStatusConfirmed {
		return nil, repository.ErrBookingCancelled
	}

	seats, err := tx.BookingSeats(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("read booking snapshot: %w", err)
	}
	seatIDs := make([]uint64, 0, len(seats))
	for _, s := range seats {
		seatIDs = append(seatIDs, s.SeatID)
	}

	changed, err := tx.MarkBookingCancelled(ctx, b.ID, reason)
	if err != nil {
		return nil, fmt.Errorf("mark booking cancelled: %w", err)
	}
	if changed == 0 {
		return nil, repository.ErrBookingCancelled
	}
	if _, err := tx.ReleaseBooked(ctx, seatIDs); err != nil {
		return nil, fmt.Errorf("release booked seats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cancel tx: %w", err)
	}
	committed = true

	b.Status = model.BookingStatusCancelled
	if reason != "" {
		b.CancelReason = &reason
	}
	o.publisher.SeatEvent(ctx, queue.SeatStateEvent{
		Type:     queue.SeatEventReleased,
		EventID:  b.EventID,
		HolderID: b.HolderID,
		SeatIDs:  seatIDs,
		Seats:    len(seatIDs),
	})
	return b, nil
}
