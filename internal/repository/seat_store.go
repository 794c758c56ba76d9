package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// SeatStore exposes atomic, conditional state transitions on seat rows.
// Every mutation is a single conditional UPDATE whose WHERE clause
// encodes the legal source state, so for any one seat the database
// imposes a total order on competing hold/confirm/release/sweep calls:
// exactly one caller observes the transition, all others see zero rows
// affected.  No caller ever needs an application-level lock.
//
// All expiry comparisons happen in SQL against UTC_TIMESTAMP() so that
// staleness is judged by the database clock, uniformly across service
// instances.
type SeatStore struct {
	db *sql.DB
}

// NewSeatStore returns a SeatStore bound to the provided database.
func NewSeatStore(db *sql.DB) *SeatStore { return &SeatStore{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning the seat transition and the booking insert.
func (r *SeatStore) DB() *sql.DB { return r.db }

// seatColumns is the column list shared by every seat SELECT.
const seatColumns = `id, event_id, section, row_label, seat_number, label,
		   base_price_cents, current_price_cents, status,
		   holder_id, hold_token, hold_expires_at, created_at, updated_at`

// TryHold claims the given seats for holderID under a fresh token in a
// single conditional UPDATE.  The WHERE clause accepts a seat that is
// AVAILABLE or carries a hold whose deadline has already passed, so
// stale holds are reclaimed in the same atomic statement that claims
// the seat, with no separate read-then-write step to race against.
// The deadline is computed with DATE_ADD over UTC_TIMESTAMP() so the
// clock that sets it is the clock every staleness comparison runs
// against.  It returns the IDs actually transitioned, which the caller
// must compare against the requested set: a shorter result is a
// partial grant that must be rolled back with ReleaseHold.
func (r *SeatStore) TryHold(ctx context.Context, eventID uint64, seatIDs []uint64, holderID uint64, token string, ttl time.Duration) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return []uint64{}, nil
	}
	query := `UPDATE seats
			  SET status = 'HELD', holder_id = ?, hold_token = ?,
				  hold_expires_at = DATE_ADD(UTC_TIMESTAMP(), INTERVAL ? SECOND)
			  WHERE event_id = ? AND id IN (` + placeholders(len(seatIDs)) + `)
				AND (status = 'AVAILABLE'
					 OR (status = 'HELD' AND hold_expires_at <= UTC_TIMESTAMP()))`
	args := make([]interface{}, 0, len(seatIDs)+4)
	args = append(args, holderID, token, int64(ttl.Seconds()), eventID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	// The token is fresh and unguessable, so the rows now carrying it
	// are exactly the subset this call claimed.
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM seats WHERE hold_token = ? ORDER BY id`, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	held := make([]uint64, 0, len(seatIDs))
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		held = append(held, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return held, nil
}

// HeldSeats returns the seats currently held under the given token
// whose deadline has not passed.  An empty result means the token is
// unknown, released, confirmed or expired; the store does not
// distinguish those cases, they all mean "no valid hold".
func (r *SeatStore) HeldSeats(ctx context.Context, token string) ([]model.Seat, error) {
	query := `SELECT ` + seatColumns + `
			  FROM seats
			  WHERE hold_token = ? AND status = 'HELD' AND hold_expires_at > UTC_TIMESTAMP()
			  ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// HeldSeatsTx is the transactional variant of HeldSeats.  It locks the
// matched rows with FOR UPDATE so the confirm transaction can read the
// price snapshot and then transition the same rows without another
// writer sneaking in between.
func (r *SeatStore) HeldSeatsTx(ctx context.Context, tx *sql.Tx, token string) ([]model.Seat, error) {
	query := `SELECT ` + seatColumns + `
			  FROM seats
			  WHERE hold_token = ? AND status = 'HELD' AND hold_expires_at > UTC_TIMESTAMP()
			  ORDER BY id
			  FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// ConfirmTx transitions every seat still held under token to BOOKED,
// clearing the hold fields, and returns the number of rows
// transitioned.  It must run in the same transaction as the booking
// insert; the caller aborts the transaction when the count does not
// match the hold's full seat set, so neither a partial transition nor
// an orphaned booking can ever commit.
func (r *SeatStore) ConfirmTx(ctx context.Context, tx *sql.Tx, token string) (int64, error) {
	const query = `UPDATE seats
				   SET status = 'BOOKED', holder_id = NULL, hold_token = NULL, hold_expires_at = NULL
				   WHERE hold_token = ? AND status = 'HELD' AND hold_expires_at > UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, query, token)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseHold reverts every seat held under token to AVAILABLE,
// clearing the hold fields.  It deliberately ignores the deadline so a
// buyer can cancel an already-stale hold, and it is idempotent:
// releasing a token that holds nothing affects zero rows and is not an
// error.
func (r *SeatStore) ReleaseHold(ctx context.Context, token string) (int64, error) {
	const query = `UPDATE seats
				   SET status = 'AVAILABLE', holder_id = NULL, hold_token = NULL, hold_expires_at = NULL
				   WHERE hold_token = ? AND status = 'HELD'`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SweepExpired reverts every seat whose hold deadline has passed back
// to AVAILABLE and returns how many were reclaimed.  Because it is one
// conditional statement it is safe to run concurrently with itself,
// with TryHold and with ConfirmTx from any number of instances.
func (r *SeatStore) SweepExpired(ctx context.Context) (int64, error) {
	const query = `UPDATE seats
				   SET status = 'AVAILABLE', holder_id = NULL, hold_token = NULL, hold_expires_at = NULL
				   WHERE status = 'HELD' AND hold_expires_at <= UTC_TIMESTAMP()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SweepExpiredSeats is SweepExpired scoped to a set of seats within one
// event.  The reservation flow runs it opportunistically before a hold
// attempt to raise the attempt's odds; TryHold's own predicate already
// reclaims stale holds, so skipping this sweep is never incorrect.
func (r *SeatStore) SweepExpiredSeats(ctx context.Context, eventID uint64, seatIDs []uint64) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	query := `UPDATE seats
			  SET status = 'AVAILABLE', holder_id = NULL, hold_token = NULL, hold_expires_at = NULL
			  WHERE event_id = ? AND id IN (` + placeholders(len(seatIDs)) + `)
				AND status = 'HELD' AND hold_expires_at <= UTC_TIMESTAMP()`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, eventID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseBookedTx reverts booked seats to AVAILABLE when their booking
// is cancelled.  Booked seats carry no hold fields, so only the status
// changes, and the update is guarded by status = 'BOOKED' so it cannot
// touch a seat that was already resold through a fresh hold cycle.
// The seat IDs must come from the booking's own snapshot, never from a
// live query.
func (r *SeatStore) ReleaseBookedTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	query := `UPDATE seats
			  SET status = 'AVAILABLE'
			  WHERE id IN (` + placeholders(len(seatIDs)) + `) AND status = 'BOOKED'`
	args := make([]interface{}, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByEvent returns every seat of an event ordered by section, row
// and number.  Rows come back as stored, stale holds included; the
// public availability view decides how to present them.
func (r *SeatStore) ListByEvent(ctx context.Context, eventID uint64) ([]model.Seat, error) {
	query := `SELECT ` + seatColumns + `
			  FROM seats
			  WHERE event_id = ?
			  ORDER BY section, row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// placeholders builds a "?, ?, ?" list of length n for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// scanSeats drains a seat row set into models, mapping the nullable
// hold columns onto pointers.
func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		var holderID sql.NullInt64
		var holdToken sql.NullString
		var holdExpiresAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.EventID, &s.Section, &s.RowLabel, &s.SeatNumber, &s.Label,
			&s.BasePriceCents, &s.CurrentPriceCents, &s.Status,
			&holderID, &holdToken, &holdExpiresAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if holderID.Valid {
			hid := uint64(holderID.Int64)
			s.HolderID = &hid
		}
		if holdToken.Valid {
			tok := holdToken.String
			s.HoldToken = &tok
		}
		if holdExpiresAt.Valid {
			exp := holdExpiresAt.Time.UTC()
			s.HoldExpiresAt = &exp
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
