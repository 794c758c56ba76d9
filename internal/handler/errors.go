package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/repository"
	"github.com/iliyamo/event-seat-booking/internal/reservation"
)

// writeEngineError maps engine errors onto HTTP responses.  Seat
// conflicts carry the unavailable ids so the client can adjust its
// selection instead of retrying blind.
func writeEngineError(c echo.Context, err error) error {
	var conflict *repository.SeatConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":             "seats unavailable",
			"unavailable_seats": conflict.Unavailable,
		})
	case errors.Is(err, reservation.ErrEmptySeatSet):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats requested"})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrHoldExpiredOrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation expired or not found"})
	case errors.Is(err, repository.ErrAlreadyConfirmedOrExpired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already confirmed or expired"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrBookingCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
