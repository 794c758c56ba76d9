package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

// EventHandler exposes the catalog-facing surface: the catalog
// collaborator pushes event rows and their seat maps through it so the
// engine has seats to arbitrate over.
type EventHandler struct {
	Events *repository.EventRepository
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *repository.EventRepository) *EventHandler {
	return &EventHandler{Events: events}
}

type createEventRequest struct {
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
}

type eventResponse struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	e := &model.Event{Name: req.Name, StartsAt: startsAt.UTC()}
	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, eventResponse{
		ID:       e.ID,
		Name:     e.Name,
		StartsAt: e.StartsAt.Format(time.RFC3339),
	})
}

type seatSeedEntry struct {
	Section    string `json:"section"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	Label      string `json:"label"`
	PriceCents uint32 `json:"price_cents"`
}

type seedSeatsRequest struct {
	Seats []seatSeedEntry `json:"seats"`
}

// SeedSeats handles POST /v1/events/:id/seats.  The whole seat map
// arrives in one request and is inserted in one statement, so a feed
// retry after a failure never leaves a half-seeded event behind.
func (h *EventHandler) SeedSeats(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Events.GetByID(c.Request().Context(), eventID); err != nil {
		return writeEngineError(c, err)
	}
	var req seedSeatsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must not be empty"})
	}

	seeds := make([]repository.SeatSeed, 0, len(req.Seats))
	for _, s := range req.Seats {
		seeds = append(seeds, repository.SeatSeed{
			Section:    s.Section,
			RowLabel:   s.RowLabel,
			SeatNumber: s.SeatNumber,
			Label:      s.Label,
			PriceCents: s.PriceCents,
		})
	}
	created, err := h.Events.CreateSeatsBulk(c.Request().Context(), eventID, seeds)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"event_id": eventID, "created": created})
}
