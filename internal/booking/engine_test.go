package booking_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
	"github.com/aylinvena/table-reservation/internal/repository"
)

const testDate = "2025-07-04"

// newFixture seeds a memory store with one venue (11:00-22:00, 30
// minute slots) and one four-seat table, and returns an engine over it.
func newFixture(t *testing.T) (*booking.Engine, *repository.MemoryStore, *model.Table) {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()

	v := &model.Venue{OwnerID: 1, Name: "Harbor Bistro", OpenMinute: 660, CloseMinute: 1320, SlotMinutes: 30}
	require.NoError(t, store.CreateVenue(ctx, v))

	tbl := &model.Table{VenueID: v.ID, Label: "T1", Capacity: 4, IsActive: true}
	require.NoError(t, store.CreateTable(ctx, tbl))

	return booking.NewEngine(store, store, store), store, tbl
}

func TestCreateBookingHappyPath(t *testing.T) {
	engine, _, tbl := newFixture(t)
	ctx := context.Background()

	res, err := engine.CreateBooking(ctx, booking.CreateRequest{
		UserID:      7,
		TableID:     tbl.ID,
		Date:        testDate,
		StartMinute: 1080, // 18:00
		EndMinute:   1140, // 19:00
		PartySize:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.NotZero(t, res.ID)
	assert.Equal(t, tbl.ID, res.TableID)
}

func TestCreateBookingOverlapConflict(t *testing.T) {
	engine, _, tbl := newFixture(t)
	ctx := context.Background()

	_, err := engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 2,
	})
	require.NoError(t, err)

	// 18:30-19:30 overlaps the pending 18:00-19:00 booking.
	_, err = engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 8, TableID: tbl.ID, Date: testDate, StartMinute: 1110, EndMinute: 1170, PartySize: 2,
	})
	assert.ErrorIs(t, err, booking.ErrConflict)

	// A touching window right after is fine.
	_, err = engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 8, TableID: tbl.ID, Date: testDate, StartMinute: 1140, EndMinute: 1200, PartySize: 2,
	})
	assert.NoError(t, err)

	// Same window on another day is fine too.
	_, err = engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 8, TableID: tbl.ID, Date: "2025-07-05", StartMinute: 1080, EndMinute: 1140, PartySize: 2,
	})
	assert.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	engine, store, tbl := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		req     booking.CreateRequest
		wantErr error
	}{
		{
			name:    "party too large",
			req:     booking.CreateRequest{UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 5},
			wantErr: booking.ErrCapacity,
		},
		{
			name:    "party not positive",
			req:     booking.CreateRequest{UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 0},
			wantErr: booking.ErrValidation,
		},
		{
			name:    "inverted window",
			req:     booking.CreateRequest{UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1140, EndMinute: 1080, PartySize: 2},
			wantErr: booking.ErrValidation,
		},
		{
			name:    "before opening",
			req:     booking.CreateRequest{UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 600, EndMinute: 690, PartySize: 2},
			wantErr: booking.ErrOutOfHours,
		},
		{
			name:    "past closing",
			req:     booking.CreateRequest{UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1290, EndMinute: 1350, PartySize: 2},
			wantErr: booking.ErrOutOfHours,
		},
		{
			name:    "misaligned start",
			req:     booking.CreateRequest{UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1095, EndMinute: 1155, PartySize: 2},
			wantErr: booking.ErrOutOfHours,
		},
		{
			name:    "unknown table",
			req:     booking.CreateRequest{UserID: 7, TableID: 999, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 2},
			wantErr: booking.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.CreateBooking(ctx, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Deactivated tables accept no new bookings.
	require.NoError(t, store.SetTableActive(ctx, tbl.ID, false))
	_, err := engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 2,
	})
	assert.ErrorIs(t, err, booking.ErrValidation)
}

func TestCreateBookingVenueClosed(t *testing.T) {
	engine, _, tbl := newFixture(t)
	engine.ClosedFn = func(venueID uint64, date string) bool { return date == testDate }

	_, err := engine.CreateBooking(context.Background(), booking.CreateRequest{
		UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 2,
	})
	assert.ErrorIs(t, err, booking.ErrOutOfHours)

	_, err = engine.CreateBooking(context.Background(), booking.CreateRequest{
		UserID: 7, TableID: tbl.ID, Date: "2025-07-05", StartMinute: 1080, EndMinute: 1140, PartySize: 2,
	})
	assert.NoError(t, err)
}

func TestLifecycleTransitions(t *testing.T) {
	engine, _, tbl := newFixture(t)
	ctx := context.Background()

	res, err := engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 7, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 2,
	})
	require.NoError(t, err)

	confirmed, err := engine.Confirm(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)

	// Confirming twice is an invalid transition.
	_, err = engine.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	cancelled, err := engine.Cancel(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = engine.Cancel(ctx, res.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
	_, err = engine.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	// The window is free again after cancellation.
	rebooked, err := engine.CreateBooking(ctx, booking.CreateRequest{
		UserID: 9, TableID: tbl.ID, Date: testDate, StartMinute: 1080, EndMinute: 1140, PartySize: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, rebooked.Status)

	_, err = engine.Confirm(ctx, 424242)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestConcurrentTransitionCancelledStaysTerminal(t *testing.T) {
	engine, store, tbl := newFixture(t)
	ctx := context.Background()

	// Cancel always has a legal path (PENDING or CONFIRMED), so it must
	// win every race: whatever order the two transitions land in, the
	// reservation ends CANCELLED and a late Confirm loses.
	for i := 0; i < 500; i++ {
		res := &model.Reservation{
			UserID: 7, TableID: tbl.ID, Date: testDate,
			StartMinute: 1080, EndMinute: 1140, PartySize: 2,
			Status: model.StatusPending,
		}
		require.NoError(t, store.Insert(ctx, res))

		var wg sync.WaitGroup
		var confirmErr, cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, confirmErr = engine.Confirm(ctx, res.ID)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = engine.Cancel(ctx, res.ID)
		}()
		wg.Wait()

		require.NoError(t, cancelErr)
		if confirmErr != nil {
			require.ErrorIs(t, confirmErr, booking.ErrInvalidTransition)
		}
		final, err := store.GetReservation(ctx, res.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusCancelled, final.Status,
			"iteration %d: cancelled reservation was overwritten", i)
	}
}

func TestConcurrentBookingSameWindow(t *testing.T) {
	engine, _, tbl := newFixture(t)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.CreateBooking(ctx, booking.CreateRequest{
				UserID:      uint64(i + 1),
				TableID:     tbl.ID,
				Date:        testDate,
				StartMinute: 1080,
				EndMinute:   1140,
				PartySize:   2,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, booking.ErrConflict)
		}
	}
	assert.Equal(t, 1, wins, "exactly one request may claim the window")
}
