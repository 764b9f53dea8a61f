package booking

import "github.com/aylinvena/table-reservation/internal/model"

// Slot is one fixed-length window within a venue's operating hours.
// Start is inclusive, End exclusive, both in minutes since midnight.
type Slot struct {
	Start int `json:"start_minute"`
	End   int `json:"end_minute"`
}

// SlotsForDay enumerates the venue's slots between opening and closing
// time in slot-length increments.  A final partial slot that would run
// past closing time is excluded.  The result is empty when the venue's
// calendar is degenerate (slot length not positive, or closing not
// after opening).
func SlotsForDay(v *model.Venue) []Slot {
	if v.SlotMinutes <= 0 || v.CloseMinute <= v.OpenMinute {
		return nil
	}
	slots := make([]Slot, 0, (v.CloseMinute-v.OpenMinute)/v.SlotMinutes)
	for start := v.OpenMinute; start+v.SlotMinutes <= v.CloseMinute; start += v.SlotMinutes {
		slots = append(slots, Slot{Start: start, End: start + v.SlotMinutes})
	}
	return slots
}

// WithinOperatingSlots reports whether [start,end) is a slot-aligned
// window inside the venue's operating hours: it must begin on a slot
// boundary, span a positive whole number of slots, and end at or
// before closing time.
func WithinOperatingSlots(v *model.Venue, start, end int) bool {
	if v.SlotMinutes <= 0 {
		return false
	}
	if start < v.OpenMinute || end > v.CloseMinute || end <= start {
		return false
	}
	if (start-v.OpenMinute)%v.SlotMinutes != 0 {
		return false
	}
	return (end-start)%v.SlotMinutes == 0
}
