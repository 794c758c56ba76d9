package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

// SeatHandler exposes the public seat availability view.
type SeatHandler struct {
	Seats  *repository.SeatStore
	Events *repository.EventRepository
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(seats *repository.SeatStore, events *repository.EventRepository) *SeatHandler {
	return &SeatHandler{Seats: seats, Events: events}
}

type seatResponse struct {
	ID         uint64 `json:"id"`
	Section    string `json:"section"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	Label      string `json:"label"`
	PriceCents uint32 `json:"price_cents"`
	Status     string `json:"status"`
}

// ListByEvent handles GET /v1/events/:id/seats.  Hold internals
// (holder, token, deadline) are never exposed; the public view only
// distinguishes available, held and booked.  A hold past its deadline
// is already reclaimable by any writer, so such a seat reads as
// available here even before the reaper sweeps it.
func (h *SeatHandler) ListByEvent(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Events.GetByID(c.Request().Context(), eventID); err != nil {
		return writeEngineError(c, err)
	}
	seats, err := h.Seats.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return writeEngineError(c, err)
	}
	now := time.Now().UTC()
	out := make([]seatResponse, 0, len(seats))
	for _, s := range seats {
		status := s.Status
		if s.HoldStale(now) {
			status = model.SeatStatusAvailable
		}
		out = append(out, seatResponse{
			ID:         s.ID,
			Section:    s.Section,
			RowLabel:   s.RowLabel,
			SeatNumber: s.SeatNumber,
			Label:      s.Label,
			PriceCents: s.CurrentPriceCents,
			Status:     status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": eventID, "seats": out})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
