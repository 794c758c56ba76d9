package repository_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

func newEventRepository(t *testing.T) (*repository.EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewEventRepository(db), mock
}

func TestEventCreateFillsID(t *testing.T) {
	repo, mock := newEventRepository(t)

	mock.ExpectExec(`INSERT INTO events \(name, starts_at\) VALUES \(\?, \?\)$`).
		WithArgs("Autumn Gala", "2026-10-01 19:30:00").
		WillReturnResult(sqlmock.NewResult(42, 1))

	e := &model.Event{Name: "Autumn Gala", StartsAt: time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, uint64(42), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventGetByIDUnknown(t *testing.T) {
	repo, mock := newEventRepository(t)

	mock.ExpectQuery(`SELECT id, name, starts_at, created_at FROM events WHERE id = \?$`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "starts_at", "created_at"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeatsBulkSingleStatement(t *testing.T) {
	repo, mock := newEventRepository(t)

	// Both rows travel in one multi-row INSERT, each seeded AVAILABLE
	// with current price equal to base price.
	mock.ExpectExec(`INSERT INTO seats \(event_id, section, row_label, seat_number, label, `+
		`base_price_cents, current_price_cents, status\) VALUES `+
		`\(\?, \?, \?, \?, \?, \?, \?, 'AVAILABLE'\), \(\?, \?, \?, \?, \?, \?, \?, 'AVAILABLE'\)$`).
		WithArgs(
			uint64(42), "STALLS", "A", uint32(1), "A-1", uint32(1000), uint32(1000),
			uint64(42), "STALLS", "A", uint32(2), "A-2", uint32(1000), uint32(1000),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.CreateSeatsBulk(context.Background(), 42, []repository.SeatSeed{
		{Section: "STALLS", RowLabel: "A", SeatNumber: 1, Label: "A-1", PriceCents: 1000},
		{Section: "STALLS", RowLabel: "A", SeatNumber: 2, Label: "A-2", PriceCents: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSeatsBulkEmptySeed(t *testing.T) {
	repo, mock := newEventRepository(t)

	n, err := repo.CreateSeatsBulk(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
