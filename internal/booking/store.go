package booking

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

// Store opens booking transactions.  The orchestrator only ever talks
// to this interface, so tests can substitute an in-memory store.
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is one booking transaction.  Its reads lock the rows they touch;
// every mutation is visible to others only after Commit.
type Tx interface {
	// HeldSeats returns the valid held rows for a token, locked.
	HeldSeats(ctx context.Context, token string) ([]model.Seat, error)
	// ConfirmSeats transitions the token's held rows to booked and
	// reports how many transitioned.
	ConfirmSeats(ctx context.Context, token string) (int64, error)
	// ReleaseBooked reverts booked seats to available.
	ReleaseBooked(ctx context.Context, seatIDs []uint64) (int64, error)
	// CreateBooking inserts the booking row and its seat snapshot.
	CreateBooking(ctx context.Context, b *model.Booking, seats []model.BookingSeat) error
	// BookingByReference fetches a booking by reference, locked.
	BookingByReference(ctx context.Context, reference string) (*model.Booking, error)
	// BookingSeats returns a booking's seat snapshot.
	BookingSeats(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error)
	// MarkBookingCancelled flips CONFIRMED to CANCELLED, recording the
	// reason, and reports whether a row changed.
	MarkBookingCancelled(ctx context.Context, bookingID uint64, reason string) (int64, error)

	Commit() error
	Rollback() error
}

// SQLStore implements Store on the MySQL repositories.
type SQLStore struct {
	db       *sql.DB
	seats    *repository.SeatStore
	bookings *repository.BookingRepository
}

// NewSQLStore wires an SQLStore.
func NewSQLStore(db *sql.DB, seats *repository.SeatStore, bookings *repository.BookingRepository) *SQLStore {
	return &SQLStore{db: db, seats: seats, bookings: bookings}
}

// BeginTx implements Store.
func (s *SQLStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, seats: s.seats, bookings: s.bookings}, nil
}

type sqlTx struct {
	tx       *sql.Tx
	seats    *repository.SeatStore
	bookings *repository.BookingRepository
}

func (t *sqlTx) HeldSeats(ctx context.Context, token string) ([]model.Seat, error) {
	return t.seats.HeldSeatsTx(ctx, t.tx, token)
}

func (t *sqlTx) ConfirmSeats(ctx context.Context, token string) (int64, error) {
	return t.seats.ConfirmTx(ctx, t.tx, token)
}

func (t *sqlTx) ReleaseBooked(ctx context.Context, seatIDs []uint64) (int64, error) {
	return t.seats.ReleaseBookedTx(ctx, t.tx, seatIDs)
}

func (t *sqlTx) CreateBooking(ctx context.Context, b *model.Booking, seats []model.BookingSeat) error {
	return t.bookings.CreateTx(ctx, t.tx, b, seats)
}

func (t *sqlTx) BookingByReference(ctx context.Context, reference string) (*model.Booking, error) {
	return t.bookings.GetByReferenceTx(ctx, t.tx, reference)
}

func (t *sqlTx) BookingSeats(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
	return t.bookings.GetSeatsTx(ctx, t.tx, bookingID)
}

func (t *sqlTx) MarkBookingCancelled(ctx context.Context, bookingID uint64, reason string) (int64, error) {
	return t.bookings.MarkCancelledTx(ctx, t.tx, bookingID, reason)
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }
