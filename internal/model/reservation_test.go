package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		name string
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed to confirmed", from: StatusConfirmed, to: StatusConfirmed, want: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusConfirmed, want: false},
		{name: "cancelled to cancelled", from: StatusCancelled, to: StatusCancelled, want: false},
		{name: "no way back to pending", from: StatusConfirmed, to: StatusPending, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestParseReservationStatus(t *testing.T) {
	got, ok := ParseReservationStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, got)

	got, ok = ParseReservationStatus("confirmed")
	assert.True(t, ok, "case-insensitive")
	assert.Equal(t, StatusConfirmed, got)
	got, ok = ParseReservationStatus(" cancelled ")
	assert.True(t, ok)
	assert.Equal(t, StatusCancelled, got)

	_, ok = ParseReservationStatus("DELAYED")
	assert.False(t, ok)
	_, ok = ParseReservationStatus("")
	assert.False(t, ok)
}

func TestBlocks(t *testing.T) {
	assert.True(t, StatusPending.Blocks())
	assert.True(t, StatusConfirmed.Blocks())
	assert.False(t, StatusCancelled.Blocks())
}

func TestOverlaps(t *testing.T) {
	r := &Reservation{Date: "2025-07-04", StartMinute: 720, EndMinute: 780} // 12:00-13:00

	assert.True(t, r.Overlaps("2025-07-04", 720, 780), "identical window")
	assert.True(t, r.Overlaps("2025-07-04", 750, 810), "partial overlap")
	assert.True(t, r.Overlaps("2025-07-04", 700, 730), "overlaps the start")
	assert.True(t, r.Overlaps("2025-07-04", 600, 900), "fully contains")

	// Half-open windows: touching boundaries do not collide.
	assert.False(t, r.Overlaps("2025-07-04", 780, 840), "starts exactly at end")
	assert.False(t, r.Overlaps("2025-07-04", 660, 720), "ends exactly at start")

	assert.False(t, r.Overlaps("2025-07-05", 720, 780), "different day")
}
