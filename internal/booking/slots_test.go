package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aylinvena/table-reservation/internal/model"
)

func dinnerVenue() *model.Venue {
	// 11:00-22:00, 30 minute slots.
	return &model.Venue{ID: 1, OpenMinute: 660, CloseMinute: 1320, SlotMinutes: 30}
}

func TestSlotsForDay(t *testing.T) {
	slots := SlotsForDay(dinnerVenue())
	require.Len(t, slots, 22)
	assert.Equal(t, Slot{Start: 660, End: 690}, slots[0])
	assert.Equal(t, Slot{Start: 1290, End: 1320}, slots[len(slots)-1])
}

func TestSlotsForDayDropsPartialSlot(t *testing.T) {
	// 10:00-11:45 with 30 minute slots: the 11:30-12:00 slot would run
	// past closing and is excluded.
	v := &model.Venue{OpenMinute: 600, CloseMinute: 705, SlotMinutes: 30}
	slots := SlotsForDay(v)
	require.Len(t, slots, 3)
	assert.Equal(t, Slot{Start: 660, End: 690}, slots[2])
}

func TestSlotsForDayDegenerateCalendar(t *testing.T) {
	assert.Empty(t, SlotsForDay(&model.Venue{OpenMinute: 600, CloseMinute: 600, SlotMinutes: 30}))
	assert.Empty(t, SlotsForDay(&model.Venue{OpenMinute: 700, CloseMinute: 600, SlotMinutes: 30}))
	assert.Empty(t, SlotsForDay(&model.Venue{OpenMinute: 600, CloseMinute: 700, SlotMinutes: 0}))
}

func TestWithinOperatingSlots(t *testing.T) {
	v := dinnerVenue()
	cases := []struct {
		name       string
		start, end int
		want       bool
	}{
		{name: "aligned hour", start: 1080, end: 1140, want: true},   // 18:00-19:00
		{name: "single slot", start: 660, end: 690, want: true},      // 11:00-11:30
		{name: "full day", start: 660, end: 1320, want: true},        // 11:00-22:00
		{name: "ends at close", start: 1290, end: 1320, want: true},  // 21:30-22:00
		{name: "before opening", start: 600, end: 690, want: false},  // 10:00 start
		{name: "past closing", start: 1290, end: 1350, want: false},  // ends 22:30
		{name: "misaligned start", start: 675, end: 735, want: false},// 11:15 start
		{name: "ragged duration", start: 660, end: 705, want: false}, // 45 minutes
		{name: "empty window", start: 720, end: 720, want: false},
		{name: "inverted window", start: 780, end: 720, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WithinOperatingSlots(v, tc.start, tc.end))
		})
	}
}
