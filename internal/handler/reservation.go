package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/middleware"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/reservation"
)

// ReservationHandler exposes the hold lifecycle over HTTP.
type ReservationHandler struct {
	Manager *reservation.Manager
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(m *reservation.Manager) *ReservationHandler {
	return &ReservationHandler{Manager: m}
}

type holdRequest struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

type holdResponse struct {
	Token            string   `json:"token"`
	EventID          uint64   `json:"event_id"`
	SeatIDs          []uint64 `json:"seat_ids"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ExpiresAt        string   `json:"expires_at"`
}

func toHoldResponse(h *model.Hold) holdResponse {
	return holdResponse{
		Token:            h.Token,
		EventID:          h.EventID,
		SeatIDs:          h.SeatIDs,
		TotalAmountCents: h.TotalAmountCents,
		ExpiresAt:        h.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Hold handles POST /v1/events/:id/reservations.  The whole seat
// group is granted or the request fails; a conflict response names
// the seats that could not be taken.
func (h *ReservationHandler) Hold(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req holdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	hold, err := h.Manager.StartReservation(c.Request().Context(), eventID, holderID, req.SeatIDs)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, toHoldResponse(hold))
}

// Verify handles GET /v1/reservations/:token.  The answer always
// reflects the seat rows; a hold past its deadline reads as gone even
// before the reaper reclaims it.
func (h *ReservationHandler) Verify(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	token := c.Param("token")

	hold, err := h.Manager.VerifyReservation(c.Request().Context(), token)
	if err != nil {
		return writeEngineError(c, err)
	}
	if hold.HolderID != holderID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toHoldResponse(hold))
}

// Cancel handles DELETE /v1/reservations/:token.  Cancelling an
// expired or unknown token succeeds with no effect, so clients can
// retry safely.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	token := c.Param("token")

	// A live hold may only be cancelled by its owner; once it is gone
	// the ownership question is moot and the cancel is a no-op.
	if hold, err := h.Manager.VerifyReservation(c.Request().Context(), token); err == nil && hold.HolderID != holderID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Manager.CancelReservation(c.Request().Context(), token); err != nil {
		return writeEngineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
