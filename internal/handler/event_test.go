package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-booking/internal/repository"
)

func newEventHandler(t *testing.T) (*EventHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEventHandler(repository.NewEventRepository(db)), mock
}

func postJSON(t *testing.T, path, body string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	return c, rec
}

func eventRow() *sqlmock.Rows {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "name", "starts_at", "created_at"}).
		AddRow(42, "Autumn Gala", now.Add(30*24*time.Hour), now)
}

func TestCreateEvent(t *testing.T) {
	h, mock := newEventHandler(t)
	mock.ExpectExec(`INSERT INTO events`).
		WithArgs("Autumn Gala", "2026-10-01 19:30:00").
		WillReturnResult(sqlmock.NewResult(42, 1))

	c, rec := postJSON(t, "/v1/events",
		`{"name":"Autumn Gala","starts_at":"2026-10-01T19:30:00Z"}`, nil)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(42), body.ID)
	assert.Equal(t, "Autumn Gala", body.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEventRejectsBadTimestamp(t *testing.T) {
	h, mock := newEventHandler(t)

	c, rec := postJSON(t, "/v1/events",
		`{"name":"Autumn Gala","starts_at":"next friday"}`, nil)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSeatsCreatesSeatMap(t *testing.T) {
	h, mock := newEventHandler(t)
	mock.ExpectQuery(`SELECT id, name, starts_at, created_at FROM events`).
		WithArgs(uint64(42)).
		WillReturnRows(eventRow())
	mock.ExpectExec(`INSERT INTO seats`).
		WithArgs(
			uint64(42), "STALLS", "A", uint32(1), "A-1", uint32(1000), uint32(1000),
			uint64(42), "STALLS", "A", uint32(2), "A-2", uint32(1000), uint32(1000),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	body := `{"seats":[
		{"section":"STALLS","row_label":"A","seat_number":1,"label":"A-1","price_cents":1000},
		{"section":"STALLS","row_label":"A","seat_number":2,"label":"A-2","price_cents":1000}]}`
	c, rec := postJSON(t, "/v1/events/42/seats", body, map[string]string{"id": "42"})
	require.NoError(t, h.SeedSeats(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		EventID uint64 `json:"event_id"`
		Created int64  `json:"created"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.EventID)
	assert.Equal(t, int64(2), resp.Created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSeatsUnknownEvent(t *testing.T) {
	h, mock := newEventHandler(t)
	mock.ExpectQuery(`SELECT id, name, starts_at, created_at FROM events`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "starts_at", "created_at"}))

	c, rec := postJSON(t, "/v1/events/99/seats", `{"seats":[]}`, map[string]string{"id": "99"})
	require.NoError(t, h.SeedSeats(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSeatsRejectsEmptySeatMap(t *testing.T) {
	h, mock := newEventHandler(t)
	mock.ExpectQuery(`SELECT id, name, starts_at, created_at FROM events`).
		WithArgs(uint64(42)).
		WillReturnRows(eventRow())

	c, rec := postJSON(t, "/v1/events/42/seats", `{"seats":[]}`, map[string]string{"id": "42"})
	require.NoError(t, h.SeedSeats(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
