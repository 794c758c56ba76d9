// Package router registers the HTTP routes of the service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/handler"
	"github.com/iliyamo/event-seat-booking/internal/middleware"
)

// Register wires all routes onto the Echo instance.  The health check
// and the per-event seat view are public; everything touching holds
// and bookings requires an access token from the auth collaborator,
// as does the seeding surface used by the catalog feed.
func Register(e *echo.Echo, rh *handler.ReservationHandler, bh *handler.BookingHandler, sh *handler.SeatHandler, eh *handler.EventHandler, jwtSecret string) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/events/:id/seats", sh.ListByEvent)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	auth.POST("/events", eh.Create)
	auth.POST("/events/:id/seats", eh.SeedSeats)

	auth.POST("/events/:id/reservations", rh.Hold)
	auth.GET("/reservations/:token", rh.Verify)
	auth.DELETE("/reservations/:token", rh.Cancel)
	auth.POST("/reservations/:token/confirm", bh.Confirm)

	auth.GET("/bookings", bh.List)
	auth.GET("/bookings/:reference", bh.Get)
	auth.DELETE("/bookings/:reference", bh.Cancel)
}
