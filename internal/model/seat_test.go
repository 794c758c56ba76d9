package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

func TestHoldStale(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	tests := []struct {
		name  string
		seat  model.Seat
		stale bool
	}{
		{"held with future deadline", model.Seat{Status: model.SeatStatusHeld, HoldExpiresAt: &future}, false},
		{"held with past deadline", model.Seat{Status: model.SeatStatusHeld, HoldExpiresAt: &past}, true},
		{"held at exact deadline", model.Seat{Status: model.SeatStatusHeld, HoldExpiresAt: &now}, true},
		{"available", model.Seat{Status: model.SeatStatusAvailable}, false},
		{"booked", model.Seat{Status: model.SeatStatusBooked}, false},
		{"held without deadline", model.Seat{Status: model.SeatStatusHeld}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, tt.seat.HoldStale(now))
		})
	}
}

func TestHoldExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	h := model.Hold{ExpiresAt: now}
	assert.True(t, h.Expired(now), "the deadline instant itself counts as expired")
	assert.True(t, h.Expired(now.Add(time.Second)))
	assert.False(t, h.Expired(now.Add(-time.Second)))
}
