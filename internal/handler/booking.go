package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/middleware"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

// BookingHandler exposes confirmation, cancellation and lookup of
// bookings.
type BookingHandler struct {
	Orchestrator *booking.Orchestrator
	Bookings     *repository.BookingRepository
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(o *booking.Orchestrator, bookings *repository.BookingRepository) *BookingHandler {
	return &BookingHandler{Orchestrator: o, Bookings: bookings}
}

type confirmRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type bookingSeatResponse struct {
	SeatID     uint64 `json:"seat_id"`
	Label      string `json:"label"`
	Section    string `json:"section"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	PriceCents uint32 `json:"price_cents"`
}

type bookingResponse struct {
	Reference           string                `json:"reference"`
	EventID             uint64                `json:"event_id"`
	Status              string                `json:"status"`
	PaymentStatus       string                `json:"payment_status"`
	TotalSeats          int                   `json:"total_seats"`
	BaseAmountCents     uint32                `json:"base_amount_cents"`
	FeesAmountCents     uint32                `json:"fees_amount_cents"`
	TaxAmountCents      uint32                `json:"tax_amount_cents"`
	DiscountAmountCents uint32                `json:"discount_amount_cents"`
	TotalAmountCents    uint32                `json:"total_amount_cents"`
	CancelReason        string                `json:"cancel_reason,omitempty"`
	CreatedAt           string                `json:"created_at,omitempty"`
	Seats               []bookingSeatResponse `json:"seats,omitempty"`
}

func toBookingResponse(b *model.Booking, seats []model.BookingSeat) bookingResponse {
	resp := bookingResponse{
		Reference:           b.Reference,
		EventID:             b.EventID,
		Status:              b.Status,
		PaymentStatus:       b.PaymentStatus,
		TotalSeats:          b.TotalSeats,
		BaseAmountCents:     b.BaseAmountCents,
		FeesAmountCents:     b.FeesAmountCents,
		TaxAmountCents:      b.TaxAmountCents,
		DiscountAmountCents: b.DiscountAmountCents,
		TotalAmountCents:    b.TotalAmountCents,
	}
	if b.CancelReason != nil {
		resp.CancelReason = *b.CancelReason
	}
	if !b.CreatedAt.IsZero() {
		resp.CreatedAt = b.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, s := range seats {
		resp.Seats = append(resp.Seats, bookingSeatResponse{
			SeatID:     s.SeatID,
			Label:      s.Label,
			Section:    s.Section,
			RowLabel:   s.RowLabel,
			SeatNumber: s.SeatNumber,
			PriceCents: s.PriceCents,
		})
	}
	return resp
}

// Confirm handles POST /v1/reservations/:token/confirm.  A missing
// payment status is recorded as PENDING; the engine does not talk to
// the payment provider itself.
func (h *BookingHandler) Confirm(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	token := c.Param("token")

	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	paymentStatus := req.PaymentStatus
	switch paymentStatus {
	case "":
		paymentStatus = model.PaymentStatusPending
	case model.PaymentStatusPending, model.PaymentStatusCaptured:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment status"})
	}

	b, seats, err := h.Orchestrator.ConfirmBooking(c.Request().Context(), token, holderID, paymentStatus)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b, seats))
}

// Cancel handles DELETE /v1/bookings/:reference.  The booking row is
// kept with status CANCELLED and returned; its seats go back on sale
// unless already resold.
func (h *BookingHandler) Cancel(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	reference := c.Param("reference")

	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	b, err := h.Orchestrator.CancelBooking(c.Request().Context(), reference, holderID, req.Reason)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b, nil))
}

// Get handles GET /v1/bookings/:reference.
func (h *BookingHandler) Get(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	reference := c.Param("reference")

	b, err := h.Bookings.GetByReference(c.Request().Context(), reference)
	if err != nil {
		return writeEngineError(c, err)
	}
	if b.HolderID != holderID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	seats, err := h.Bookings.GetSeats(c.Request().Context(), b.ID)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b, seats))
}

// List handles GET /v1/bookings, returning the caller's bookings
// newest first.
func (h *BookingHandler) List(c echo.Context) error {
	holderID, ok := middleware.HolderID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	bookings, err := h.Bookings.ListByHolder(c.Request().Context(), holderID)
	if err != nil {
		return writeEngineError(c, err)
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i], nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}
