package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/event-seat-booking/internal/repository"
)

func TestSeatConflictErrorMessage(t *testing.T) {
	err := &repository.SeatConflictError{Unavailable: []uint64{3, 17}}
	assert.Equal(t, "seats unavailable: [3,17]", err.Error())
}

func TestSeatConflictErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := &repository.SeatConflictError{Unavailable: []uint64{5}}
	wrapped := fmt.Errorf("start reservation: %w", inner)

	var conflict *repository.SeatConflictError
	assert.True(t, errors.As(wrapped, &conflict))
	assert.Equal(t, []uint64{5}, conflict.Unavailable)
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("confirm: %w", repository.ErrAlreadyConfirmedOrExpired)
	assert.True(t, errors.Is(wrapped, repository.ErrAlreadyConfirmedOrExpired))
	assert.False(t, errors.Is(wrapped, repository.ErrHoldExpiredOrNotFound))
}
