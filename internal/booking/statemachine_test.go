package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestCanTransition(t *testing.T) {
	all := []model.ReservationStatus{
		model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled,
	}
	allowed := map[[2]model.ReservationStatus]bool{
		{model.StatusPending, model.StatusConfirmed}:   true,
		{model.StatusConfirmed, model.StatusCompleted}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]model.ReservationStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("NO_SHOW", model.StatusConfirmed))
	assert.False(t, CanTransition(model.StatusPending, "NO_SHOW"))
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition(model.StatusPending, model.StatusCompleted)
	assert.Equal(t, "validation", err.Code)
	assert.Equal(t, "Invalid status transition from PENDING to COMPLETED", err.Message)
}
