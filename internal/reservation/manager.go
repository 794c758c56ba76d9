// Package reservation implements the hold protocol: claiming a group
// of seats atomically under one token, verifying a hold and releasing
// it, plus the background reaper that reclaims expired holds.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/queue"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

// ErrEmptySeatSet is returned when a reservation names no seats after
// deduplication.
var ErrEmptySeatSet = errors.New("reservation: empty seat set")

// SeatHolder is the slice of the seat store the manager needs.
type SeatHolder interface {
	SweepExpiredSeats(ctx context.Context, eventID uint64, seatIDs []uint64) (int64, error)
	TryHold(ctx context.Context, eventID uint64, seatIDs []uint64, holderID uint64, token string, ttl time.Duration) ([]uint64, error)
	HeldSeats(ctx context.Context, token string) ([]model.Seat, error)
	ReleaseHold(ctx context.Context, token string) (int64, error)
}

// EventGetter resolves event existence before a hold is attempted.
type EventGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// Manager drives the hold lifecycle.  It never holds locks across its
// calls into the store; the store's conditional updates arbitrate all
// races, and the cache mirror plus the broker notifications are
// best-effort side channels that may fail without failing the
// operation.
type Manager struct {
	seats     SeatHolder
	events    EventGetter
	cache     *HoldCache
	publisher *queue.Publisher
	holdTTL   time.Duration
}

// NewManager wires a Manager.  cache and publisher may be nil.
func NewManager(seats SeatHolder, events EventGetter, cache *HoldCache, publisher *queue.Publisher, holdTTL time.Duration) *Manager {
	return &Manager{seats: seats, events: events, cache: cache, publisher: publisher, holdTTL: holdTTL}
}

// StartReservation claims all the requested seats for holderID as one
// atomic group.  Either every seat is granted under a fresh token or
// none remain held: a partial grant is rolled back by token and
// surfaces as a SeatConflictError naming the seats that could not be
// taken.  The returned hold carries the total of the seats' current
// prices re-read from the granted rows.
func (m *Manager) StartReservation(ctx context.Context, eventID, holderID uint64, seatIDs []uint64) (*model.Hold, error) {
	ids := dedupe(seatIDs)
	if len(ids) == 0 {
		return nil, ErrEmptySeatSet
	}
	if _, err := m.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	// Opportunistic: raises the odds of the attempt below, but the
	// hold predicate reclaims stale holds on its own, so a failure
	// here is not a failure of the reservation.
	if _, err := m.seats.SweepExpiredSeats(ctx, eventID, ids); err != nil {
		log.Printf("reservation: scoped sweep failed: %v", err)
	}

	token, err := NewHoldToken()
	if err != nil {
		return nil, fmt.Errorf("generate hold token: %w", err)
	}
	granted, err := m.seats.TryHold(ctx, eventID, ids, holderID, token, m.holdTTL)
	if err != nil {
		return nil, fmt.Errorf("hold seats: %w", err)
	}
	if len(granted) != len(ids) {
		if _, rerr := m.seats.ReleaseHold(ctx, token); rerr != nil {
			log.Printf("reservation: rollback of partial hold failed: %v", rerr)
		}
		return nil, &repository.SeatConflictError{Unavailable: missing(ids, granted)}
	}

	rows, err := m.seats.HeldSeats(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read held seats: %w", err)
	}
	if len(rows) != len(ids) {
		// The deadline passed between the grant and this read.  Only
		// possible with a pathologically short TTL; treat as expired.
		_, _ = m.seats.ReleaseHold(ctx, token)
		return nil, repository.ErrHoldExpiredOrNotFound
	}

	hold := holdFromSeats(token, rows)
	hold.CreatedAt = time.Now().UTC()
	if err := m.cache.Put(ctx, hold); err != nil {
		log.Printf("reservation: cache mirror failed: %v", err)
	}
	m.publisher.SeatEvent(ctx, queue.SeatStateEvent{
		Type:     queue.SeatEventHeld,
		Token:    hold.Token,
		EventID:  hold.EventID,
		HolderID: hold.HolderID,
		SeatIDs:  hold.SeatIDs,
		Seats:    len(hold.SeatIDs),
	})
	return hold, nil
}

// VerifyReservation re-reads the hold from the seat rows.  The cache
// may short-circuit only the negative case (a mirrored hold already
// past its deadline); any positive answer must come from the rows
// themselves.  Returns ErrHoldExpiredOrNotFound when no valid hold
// carries the token.
func (m *Manager) VerifyReservation(ctx context.Context, token string) (*model.Hold, error) {
	if cached, err := m.cache.Get(ctx, token); err != nil {
		log.Printf("reservation: cache lookup failed: %v", err)
	} else if cached != nil && cached.Expired(time.Now().UTC()) {
		return nil, repository.ErrHoldExpiredOrNotFound
	}

	rows, err := m.seats.HeldSeats(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read held seats: %w", err)
	}
	if len(rows) == 0 {
		if derr := m.cache.Delete(ctx, token); derr != nil {
			log.Printf("reservation: cache delete failed: %v", derr)
		}
		return nil, repository.ErrHoldExpiredOrNotFound
	}
	return holdFromSeats(token, rows), nil
}

// CancelReservation releases whatever the token still holds.  It is
// idempotent: cancelling an expired, already-released or unknown token
// releases nothing and succeeds.
func (m *Manager) CancelReservation(ctx context.Context, token string) error {
	released, err := m.seats.ReleaseHold(ctx, token)
	if err != nil {
		return fmt.Errorf("release hold: %w", err)
	}
	if derr := m.cache.Delete(ctx, token); derr != nil {
		log.Printf("reservation: cache delete failed: %v", derr)
	}
	if released > 0 {
		m.publisher.SeatEvent(ctx, queue.SeatStateEvent{
			Type:  queue.SeatEventReleased,
			Token: token,
			Seats: int(released),
		})
	}
	return nil
}

// holdFromSeats rebuilds the hold view from held seat rows.  The rows
// are authoritative for deadline, ownership and pricing.
func holdFromSeats(token string, rows []model.Seat) *model.Hold {
	h := &model.Hold{
		Token:   token,
		EventID: rows[0].EventID,
		SeatIDs: make([]uint64, 0, len(rows)),
	}
	if rows[0].HolderID != nil {
		h.HolderID = *rows[0].HolderID
	}
	if rows[0].HoldExpiresAt != nil {
		h.ExpiresAt = *rows[0].HoldExpiresAt
	}
	for _, s := range rows {
		h.SeatIDs = append(h.SeatIDs, s.ID)
		h.TotalAmountCents += s.CurrentPriceCents
	}
	return h
}

// dedupe drops duplicate seat ids preserving first-seen order.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missing returns the requested ids absent from the granted set.
func missing(requested, granted []uint64) []uint64 {
	got := make(map[uint64]struct{}, len(granted))
	for _, id := range granted {
		got[id] = struct{}{}
	}
	out := make([]uint64, 0, len(requested)-len(granted))
	for _, id := range requested {
		if _, ok := got[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
