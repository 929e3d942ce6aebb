package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func statusPtr(s model.ReservationStatus) *model.ReservationStatus { return &s }

func TestCreateReservation(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	assert.NotZero(t, r.ID)
	assert.Equal(t, model.StatusPending, r.Status)
	assert.Equal(t, 200.0, r.BasePrice)
	assert.Equal(t, 200.0, r.TotalPrice)
	assert.Equal(t, uint64(1), r.Version)
	assert.Equal(t, uint64(1), r.CreatedByUserID)

	stored, err := f.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestCreateOverlapConflict(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	_, err = f.engine.Create(context.Background(), f.createReq(f.window(19*60, 21*60)))
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "conflict", de.Code)
	assert.Equal(t, "Table is already booked for the requested time window", de.Message)
}

func TestCreateTouchingWindowsBookable(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	// Back-to-back booking starting exactly when the first ends.
	_, err = f.engine.Create(context.Background(), f.createReq(f.window(20*60, 22*60)))
	assert.NoError(t, err)
}

func TestCreateOtherTableUnaffected(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	req := f.createReq(f.window(18*60, 20*60))
	req.TableID = 2
	_, err = f.engine.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateValidationOrder(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name     string
		mutate   func(*CreateRequest)
		wantCode string
		wantMsg  string
	}{
		{"unknown actor", func(r *CreateRequest) { r.ActorID = 99 }, "unauthenticated", "acting user not found"},
		{"inactive actor", func(r *CreateRequest) { r.ActorID = 2 }, "unauthenticated", "acting user is inactive"},
		{"unknown client", func(r *CreateRequest) { r.ClientID = 99 }, "not_found", "Client not found or inactive"},
		{"inactive client", func(r *CreateRequest) { r.ClientID = 2 }, "not_found", "Client not found or inactive"},
		{"unknown table", func(r *CreateRequest) { r.TableID = 99 }, "not_found", "Table not found or inactive"},
		{"inactive table", func(r *CreateRequest) { r.TableID = 3 }, "not_found", "Table not found or inactive"},
		{"inactive table type", func(r *CreateRequest) { r.TableID = 4 }, "validation", "table type is not available for booking"},
		{"zero guests", func(r *CreateRequest) { r.Guests = 0 }, "validation", "number of guests must be between 1 and 50"},
		{"too many guests", func(r *CreateRequest) { r.Guests = 51 }, "validation", "number of guests must be between 1 and 50"},
		{"over capacity", func(r *CreateRequest) { r.Guests = 5 }, "validation", "number of guests exceeds table capacity (4)"},
		// Inactive client outranks bad guests: checks run in order.
		{"client checked before guests", func(r *CreateRequest) { r.ClientID = 2; r.Guests = 0 }, "not_found", "Client not found or inactive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.createReq(f.window(18*60, 20*60))
			tc.mutate(&req)
			_, err := f.engine.Create(context.Background(), req)
			de, ok := AsDomain(err)
			require.True(t, ok, "expected domain error, got %v", err)
			assert.Equal(t, tc.wantCode, de.Code)
			assert.Equal(t, tc.wantMsg, de.Message)
		})
	}
}

func TestCreateWindowPolicy(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Create(context.Background(), f.createReq(f.window(20*60, 18*60)))
	de, _ := AsDomain(err)
	require.NotNil(t, de)
	assert.Equal(t, "end time must be after start time", de.Message)

	_, err = f.engine.Create(context.Background(), f.createReq(f.window(18*60, 18*60+20)))
	de, _ = AsDomain(err)
	require.NotNil(t, de)
	assert.Equal(t, "reservation must last at least 30 minutes", de.Message)

	// Now is 2026-03-01 12:00 UTC; a window that morning already started.
	past := NewTimeWindow(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 10*60, 11*60)
	_, err = f.engine.Create(context.Background(), f.createReq(past))
	de, _ = AsDomain(err)
	require.NotNil(t, de)
	assert.Equal(t, "reservation must start in the future", de.Message)

	// Exactly 30 minutes passes.
	_, err = f.engine.Create(context.Background(), f.createReq(f.window(18*60, 18*60+30)))
	assert.NoError(t, err)
}

func TestCreateRaceLostToAtomicCheck(t *testing.T) {
	f := newFixture()

	// Seed a conflicting row directly, as if a concurrent request won the
	// write between the availability read and the insert.
	seeded := &model.Reservation{
		ClientID: 1, TableID: 1, CreatedByUserID: 1,
		Date:         f.window(0, 0).Date,
		StartMinutes: 18 * 60, EndMinutes: 20 * 60,
		Guests: 2, Status: model.StatusPending,
	}
	require.NoError(t, f.reservations.Create(context.Background(), seeded))

	_, err := f.engine.Create(context.Background(), f.createReq(f.window(19*60, 21*60)))
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "conflict", de.Code)
}

func TestUpdateReschedulesAndReprices(t *testing.T) {
	f := newFixture()
	f.rules.rules = []model.PricingRule{
		// Evening surcharge from 19:00.
		yearRule(1, 10, 19*60, 24*60, allWeek),
	}

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(14*60, 16*60)))
	require.NoError(t, err)
	assert.Equal(t, 200.0, r.TotalPrice)

	start, end := 19*60, 21*60
	updated, err := f.engine.Update(context.Background(), 1, r.ID, Patch{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 19*60, updated.StartMinutes)
	assert.Equal(t, 220.0, updated.TotalPrice)
	assert.Equal(t, uint64(2), updated.Version)
}

func TestUpdateKeepsPriceWithoutReschedule(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	// Raising the rate after booking must not reprice a notes-only patch.
	f.types.rows[1].BasePricePerHour = 500
	notes := "birthday cake at 19:00"
	updated, err := f.engine.Update(context.Background(), 1, r.ID, Patch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.TotalPrice)
	assert.Equal(t, notes, updated.Notes)
}

func TestUpdateOverlapExcludesSelf(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	// Shrinking inside its own window conflicts only with itself.
	start, end := 18*60+30, 19*60+30
	updated, err := f.engine.Update(context.Background(), 1, r.ID, Patch{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, updated.StartMinutes)
}

func TestUpdateIntoOtherReservationConflicts(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)
	r2, err := f.engine.Create(context.Background(), f.createReq(f.window(20*60, 22*60)))
	require.NoError(t, err)

	start := 19 * 60
	_, err = f.engine.Update(context.Background(), 1, r2.ID, Patch{Start: &start})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "conflict", de.Code)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	updated, err := f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)

	updated, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)

	// Terminal: no further edits.
	notes := "late"
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Notes: &notes})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "cannot modify cancelled or completed reservations", de.Message)
}

func TestUpdateStatusOnTerminalReportsTransition(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusConfirmed)})
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusCompleted)})
	require.NoError(t, err)

	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusPending)})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status transition from COMPLETED to PENDING", de.Message)
}

func TestUpdateRejectsSkippedTransition(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusCompleted)})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status transition from PENDING to COMPLETED", de.Message)
}

func TestUpdateRejectsCancelViaStatus(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusCancelled)})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid status transition from PENDING to CANCELLED", de.Message)
}

func TestUpdateStaleRetriesOnce(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	f.reservations.staleFailures = 1
	guests := 3
	updated, err := f.engine.Update(context.Background(), 1, r.ID, Patch{Guests: &guests})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Guests)
}

func TestUpdateStaleTwiceConflicts(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	f.reservations.staleFailures = 2
	guests := 3
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Guests: &guests})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "reservation was modified concurrently", de.Message)
}

func TestUpdateUnknownReservation(t *testing.T) {
	f := newFixture()
	notes := "x"
	_, err := f.engine.Update(context.Background(), 1, 99, Patch{Notes: &notes})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "Reservation not found", de.Message)
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	require.NoError(t, f.engine.Cancel(context.Background(), 1, r.ID))

	stored, err := f.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)

	// The slot is immediately bookable again.
	_, err = f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	assert.NoError(t, err)
}

func TestCancelFromConfirmed(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusConfirmed)})
	require.NoError(t, err)

	assert.NoError(t, f.engine.Cancel(context.Background(), 1, r.ID))
}

func TestCancelTwiceRejected(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)
	require.NoError(t, f.engine.Cancel(context.Background(), 1, r.ID))

	before, err := f.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)

	err = f.engine.Cancel(context.Background(), 1, r.ID)
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "validation", de.Code)
	assert.Equal(t, "Reservation is already cancelled", de.Message)

	// The rejected cancel must not touch the row.
	after, err := f.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, before.Version, after.Version)
}

func TestCancelCompletedRejected(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusConfirmed)})
	require.NoError(t, err)
	_, err = f.engine.Update(context.Background(), 1, r.ID, Patch{Status: statusPtr(model.StatusCompleted)})
	require.NoError(t, err)

	err = f.engine.Cancel(context.Background(), 1, r.ID)
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "cannot modify cancelled or completed reservations", de.Message)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture()

	free, err := f.engine.CheckAvailability(context.Background(), 1, f.window(18*60, 20*60), 0)
	require.NoError(t, err)
	assert.True(t, free)

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	free, err = f.engine.CheckAvailability(context.Background(), 1, f.window(19*60, 21*60), 0)
	require.NoError(t, err)
	assert.False(t, free)

	// Excluding the blocking reservation frees the slot.
	free, err = f.engine.CheckAvailability(context.Background(), 1, f.window(19*60, 21*60), r.ID)
	require.NoError(t, err)
	assert.True(t, free)

	// Terminal reservations never block.
	require.NoError(t, f.engine.Cancel(context.Background(), 1, r.ID))
	free, err = f.engine.CheckAvailability(context.Background(), 1, f.window(19*60, 21*60), 0)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestUpdateRequiresActiveActor(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Create(context.Background(), f.createReq(f.window(18*60, 20*60)))
	require.NoError(t, err)

	notes := "x"
	_, err = f.engine.Update(context.Background(), 2, r.ID, Patch{Notes: &notes})
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "unauthenticated", de.Code)

	err = f.engine.Cancel(context.Background(), 99, r.ID)
	de, ok = AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "unauthenticated", de.Code)
}
