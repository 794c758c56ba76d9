package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// EventRepository handles events and seat map seeding.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository returns an EventRepository bound to the provided
// database.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and fills in its ID.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (name, starts_at) VALUES (?, ?)`,
		e.Name, e.StartsAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches an event.  Returns ErrEventNotFound when no event
// carries the ID.
func (r *EventRepository) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, starts_at, created_at FROM events WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.StartsAt, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SeatSeed describes one seat to create when seeding an event's seat
// map.  Seats always start AVAILABLE with current price equal to base
// price.
type SeatSeed struct {
	Section    string
	RowLabel   string
	SeatNumber uint32
	Label      string
	PriceCents uint32
}

// CreateSeatsBulk inserts an event's seat map in a single multi-row
// statement.  Returns the number of seats created.
func (r *EventRepository) CreateSeatsBulk(ctx context.Context, eventID uint64, seeds []SeatSeed) (int64, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	query := `INSERT INTO seats
		(event_id, section, row_label, seat_number, label,
		 base_price_cents, current_price_cents, status) VALUES `
	args := make([]interface{}, 0, len(seeds)*7)
	for i, s := range seeds {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?, ?, ?, ?, 'AVAILABLE')"
		args = append(args, eventID, s.Section, s.RowLabel, s.SeatNumber, s.Label, s.PriceCents, s.PriceCents)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
