package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// BookingRepository handles bookings and their seat snapshots.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns a BookingRepository bound to the
// provided database.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateTx inserts the booking row and its seat snapshot inside the
// caller's transaction.  It must run in the same transaction that
// transitions the seats to BOOKED so the booking and its seats commit
// or abort together.  The booking's ID is filled in on success.
func (r *BookingRepository) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking, seats []model.BookingSeat) error {
	const insertBooking = `INSERT INTO bookings
		(reference, event_id, holder_id, status, payment_status, total_seats,
		 base_amount_cents, fees_amount_cents, tax_amount_cents,
		 discount_amount_cents, total_amount_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insertBooking,
		b.Reference, b.EventID, b.HolderID, b.Status, b.PaymentStatus, b.TotalSeats,
		b.BaseAmountCents, b.FeesAmountCents, b.TaxAmountCents,
		b.DiscountAmountCents, b.TotalAmountCents,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats
		(booking_id, seat_id, label, section, row_label, seat_number, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*7)
	for i, s := range seats {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, b.ID, s.SeatID, s.Label, s.Section, s.RowLabel, s.SeatNumber, s.PriceCents)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// GetByReference fetches a booking by its public reference code.
// Returns ErrBookingNotFound when no booking carries the reference.
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	const query = `SELECT id, reference, event_id, holder_id, status, payment_status,
		       total_seats, base_amount_cents, fees_amount_cents, tax_amount_cents,
		       discount_amount_cents, total_amount_cents, cancel_reason, created_at, updated_at
		FROM bookings WHERE reference = ?`
	b, err := r.scanBooking(r.db.QueryRowContext(ctx, query, reference))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetByReferenceTx is GetByReference inside the caller's transaction
// with the booking row locked, so cancellation can check status and
// flip it without racing another cancel.
func (r *BookingRepository) GetByReferenceTx(ctx context.Context, tx *sql.Tx, reference string) (*model.Booking, error) {
	const query = `SELECT id, reference, event_id, holder_id, status, payment_status,
		       total_seats, base_amount_cents, fees_amount_cents, tax_amount_cents,
		       discount_amount_cents, total_amount_cents, cancel_reason, created_at, updated_at
		FROM bookings WHERE reference = ? FOR UPDATE`
	b, err := r.scanBooking(tx.QueryRowContext(ctx, query, reference))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetSeats returns the seat snapshot of a booking ordered by seat ID.
func (r *BookingRepository) GetSeats(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
	const query = `SELECT id, booking_id, seat_id, label, section, row_label, seat_number, price_cents
		FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`
	return r.querySeats(ctx, r.db.QueryContext, query, bookingID)
}

// GetSeatsTx is GetSeats inside the caller's transaction.
func (r *BookingRepository) GetSeatsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]model.BookingSeat, error) {
	const query = `SELECT id, booking_id, seat_id, label, section, row_label, seat_number, price_cents
		FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`
	return r.querySeats(ctx, tx.QueryContext, query, bookingID)
}

// ListByHolder returns a buyer's bookings, newest first.
func (r *BookingRepository) ListByHolder(ctx context.Context, holderID uint64) ([]model.Booking, error) {
	const query = `SELECT id, reference, event_id, holder_id, status, payment_status,
		       total_seats, base_amount_cents, fees_amount_cents, tax_amount_cents,
		       discount_amount_cents, total_amount_cents, cancel_reason, created_at, updated_at
		FROM bookings WHERE holder_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, holderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		var reason sql.NullString
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.EventID, &b.HolderID, &b.Status, &b.PaymentStatus,
			&b.TotalSeats, &b.BaseAmountCents, &b.FeesAmountCents, &b.TaxAmountCents,
			&b.DiscountAmountCents, &b.TotalAmountCents, &reason, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if reason.Valid {
			r := reason.String
			b.CancelReason = &r
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// MarkCancelledTx flips a booking from CONFIRMED to CANCELLED inside
// the caller's transaction, recording the supplied reason.  The status
// guard makes cancellation idempotent at the row level: a second
// cancel affects zero rows, and the caller translates that into
// ErrBookingCancelled.
func (r *BookingRepository) MarkCancelledTx(ctx context.Context, tx *sql.Tx, bookingID uint64, reason string) (int64, error) {
	const query = `UPDATE bookings
		SET status = 'CANCELLED', cancel_reason = NULLIF(?, '')
		WHERE id = ? AND status = 'CONFIRMED'`
	res, err := tx.ExecContext(ctx, query, reason, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BookingRepository) scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var reason sql.NullString
	err := row.Scan(
		&b.ID, &b.Reference, &b.EventID, &b.HolderID, &b.Status, &b.PaymentStatus,
		&b.TotalSeats, &b.BaseAmountCents, &b.FeesAmountCents, &b.TaxAmountCents,
		&b.DiscountAmountCents, &b.TotalAmountCents, &reason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		r := reason.String
		b.CancelReason = &r
	}
	return &b, nil
}

type queryFunc func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *BookingRepository) querySeats(ctx context.Context, q queryFunc, query string, bookingID uint64) ([]model.BookingSeat, error) {
	rows, err := q(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.BookingSeat, 0)
	for rows.Next() {
		var s model.BookingSeat
		if err := rows.Scan(&s.ID, &s.BookingID, &s.SeatID, &s.Label, &s.Section, &s.RowLabel, &s.SeatNumber, &s.PriceCents); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
