package reservation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
	"github.com/iliyamo/event-seat-booking/internal/reservation"
)

// fakeSeatStore arbitrates holds in memory the way the SQL store does:
// a seat marked unavailable is refused, everything else is granted
// under the offered token.
type fakeSeatStore struct {
	prices      map[uint64]uint32
	unavailable map[uint64]bool

	holds    map[string]fakeHold // token -> grant
	released []string
	sweeps   int
	sweepErr error
	reads    int
}

type fakeHold struct {
	eventID   uint64
	holderID  uint64
	seatIDs   []uint64
	expiresAt time.Time
}

func newFakeSeatStore(prices map[uint64]uint32) *fakeSeatStore {
	return &fakeSeatStore{
		prices:      prices,
		unavailable: map[uint64]bool{},
		holds:       map[string]fakeHold{},
	}
}

func (f *fakeSeatStore) SweepExpiredSeats(ctx context.Context, eventID uint64, seatIDs []uint64) (int64, error) {
	f.sweeps++
	return 0, f.sweepErr
}

func (f *fakeSeatStore) TryHold(ctx context.Context, eventID uint64, seatIDs []uint64, holderID uint64, token string, ttl time.Duration) ([]uint64, error) {
	granted := make([]uint64, 0, len(seatIDs))
	for _, id := range seatIDs {
		if !f.unavailable[id] {
			granted = append(granted, id)
		}
	}
	f.holds[token] = fakeHold{
		eventID:   eventID,
		holderID:  holderID,
		seatIDs:   granted,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return granted, nil
}

func (f *fakeSeatStore) HeldSeats(ctx context.Context, token string) ([]model.Seat, error) {
	f.reads++
	h, ok := f.holds[token]
	if !ok || !h.expiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	rows := make([]model.Seat, 0, len(h.seatIDs))
	for _, id := range h.seatIDs {
		holderID := h.holderID
		expires := h.expiresAt
		rows = append(rows, model.Seat{
			ID:                id,
			EventID:           h.eventID,
			CurrentPriceCents: f.prices[id],
			Status:            model.SeatStatusHeld,
			HolderID:          &holderID,
			HoldExpiresAt:     &expires,
		})
	}
	return rows, nil
}

func (f *fakeSeatStore) ReleaseHold(ctx context.Context, token string) (int64, error) {
	f.released = append(f.released, token)
	h, ok := f.holds[token]
	if !ok {
		return 0, nil
	}
	delete(f.holds, token)
	return int64(len(h.seatIDs)), nil
}

type fakeEvents struct {
	missing bool
}

func (f *fakeEvents) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	if f.missing {
		return nil, repository.ErrEventNotFound
	}
	return &model.Event{ID: id, Name: "concert"}, nil
}

func newManager(store *fakeSeatStore, cache *reservation.HoldCache) *reservation.Manager {
	return reservation.NewManager(store, &fakeEvents{}, cache, nil, 10*time.Minute)
}

func TestStartReservationGrantsWholeGroup(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000, 2: 1500, 3: 2500})
	m := newManager(store, nil)

	hold, err := m.StartReservation(context.Background(), 42, 7, []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, hold.Token, 64)
	assert.Equal(t, uint64(42), hold.EventID)
	assert.Equal(t, uint64(7), hold.HolderID)
	assert.Equal(t, []uint64{1, 2, 3}, hold.SeatIDs)
	assert.Equal(t, uint32(5000), hold.TotalAmountCents)
	assert.True(t, hold.ExpiresAt.After(time.Now().UTC()))
}

func TestStartReservationConflictRollsBackPartialGrant(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000, 2: 1500, 3: 2500})
	store.unavailable[2] = true
	m := newManager(store, nil)

	_, err := m.StartReservation(context.Background(), 42, 7, []uint64{1, 2, 3})
	var conflict *repository.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint64{2}, conflict.Unavailable)

	// The partial grant must have been rolled back under its token.
	require.Len(t, store.released, 1)
	assert.Empty(t, store.holds)
}

func TestStartReservationDeduplicatesSeatIDs(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000, 2: 1500})
	m := newManager(store, nil)

	hold, err := m.StartReservation(context.Background(), 42, 7, []uint64{1, 1, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, hold.SeatIDs)
	assert.Equal(t, uint32(2500), hold.TotalAmountCents)
}

func TestStartReservationFreshTokenPerAttempt(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000, 2: 1000})
	m := newManager(store, nil)

	first, err := m.StartReservation(context.Background(), 42, 7, []uint64{1})
	require.NoError(t, err)
	second, err := m.StartReservation(context.Background(), 42, 7, []uint64{2})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestStartReservationEmptySeatSet(t *testing.T) {
	m := newManager(newFakeSeatStore(nil), nil)

	_, err := m.StartReservation(context.Background(), 42, 7, nil)
	assert.ErrorIs(t, err, reservation.ErrEmptySeatSet)
}

func TestStartReservationUnknownEvent(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000})
	m := reservation.NewManager(store, &fakeEvents{missing: true}, nil, nil, 10*time.Minute)

	_, err := m.StartReservation(context.Background(), 99, 7, []uint64{1})
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestStartReservationSurvivesSweepFailure(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000})
	store.sweepErr = errors.New("db hiccup")
	m := newManager(store, nil)

	hold, err := m.StartReservation(context.Background(), 42, 7, []uint64{1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, hold.SeatIDs)
	assert.Equal(t, 1, store.sweeps)
}

func TestVerifyReservationReflectsStore(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000, 2: 1500})
	m := newManager(store, nil)

	created, err := m.StartReservation(context.Background(), 42, 7, []uint64{1, 2})
	require.NoError(t, err)

	hold, err := m.VerifyReservation(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.SeatIDs, hold.SeatIDs)
	assert.Equal(t, created.TotalAmountCents, hold.TotalAmountCents)
}

func TestVerifyReservationUnknownToken(t *testing.T) {
	m := newManager(newFakeSeatStore(nil), nil)

	_, err := m.VerifyReservation(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, repository.ErrHoldExpiredOrNotFound)
}

func TestVerifyReservationNegativeCacheShortCircuits(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000})
	client, mock := redismock.NewClientMock()
	cache := reservation.NewHoldCache(client, "hold")
	m := newManager(store, cache)

	stale := model.Hold{Token: "tok", ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	payload, err := json.Marshal(&stale)
	require.NoError(t, err)
	mock.ExpectGet("hold:tok").SetVal(string(payload))

	_, err = m.VerifyReservation(context.Background(), "tok")
	assert.ErrorIs(t, err, repository.ErrHoldExpiredOrNotFound)
	assert.Zero(t, store.reads, "expired mirror entry should answer without a store read")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyReservationNeverTrustsPositiveCache(t *testing.T) {
	store := newFakeSeatStore(nil) // nothing held
	client, mock := redismock.NewClientMock()
	cache := reservation.NewHoldCache(client, "hold")
	m := newManager(store, cache)

	live := model.Hold{Token: "tok", SeatIDs: []uint64{1}, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	payload, err := json.Marshal(&live)
	require.NoError(t, err)
	mock.ExpectGet("hold:tok").SetVal(string(payload))
	mock.ExpectDel("hold:tok").SetVal(1)

	_, err = m.VerifyReservation(context.Background(), "tok")
	assert.ErrorIs(t, err, repository.ErrHoldExpiredOrNotFound)
	assert.Equal(t, 1, store.reads, "a positive mirror entry must still be re-checked against the store")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservationIsIdempotent(t *testing.T) {
	store := newFakeSeatStore(map[uint64]uint32{1: 1000})
	m := newManager(store, nil)

	hold, err := m.StartReservation(context.Background(), 42, 7, []uint64{1})
	require.NoError(t, err)

	require.NoError(t, m.CancelReservation(context.Background(), hold.Token))
	require.NoError(t, m.CancelReservation(context.Background(), hold.Token))
	require.NoError(t, m.CancelReservation(context.Background(), "unknown"))
}
