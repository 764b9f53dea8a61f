package booking

import (
	"context"
	"fmt"

	"github.com/aylinvena/table-reservation/internal/model"
)

// Resolver answers availability questions against the table registry
// and the reservation ledger.  Reads performed through the resolver
// are display-oriented and take no lock; the create path inside the
// engine re-validates under the table's critical section, so a stale
// answer here only risks offering a slot that is later rejected with
// ErrConflict.
type Resolver struct {
	venues       VenueStore
	tables       TableStore
	reservations ReservationStore
}

// NewResolver builds a Resolver over the given stores.
func NewResolver(venues VenueStore, tables TableStore, reservations ReservationStore) *Resolver {
	if venues == nil || tables == nil || reservations == nil {
		panic("nil store passed to NewResolver")
	}
	return &Resolver{venues: venues, tables: tables, reservations: reservations}
}

// IsFree reports whether no pending or confirmed reservation for the
// table on the given date overlaps [start,end).  Overlap uses
// half-open semantics: windows that only touch do not collide.
func (r *Resolver) IsFree(ctx context.Context, tableID uint64, date string, start, end int) (bool, error) {
	existing, err := r.reservations.ReservationsForTable(ctx, tableID, date)
	if err != nil {
		return false, err
	}
	for _, res := range existing {
		if res.Status.Blocks() && res.Overlaps(date, start, end) {
			return false, nil
		}
	}
	return true, nil
}

// FindAvailableTables returns the venue's active tables that seat at
// least partySize and are free for [start,end) on the date.  The
// smallest adequate table comes first (capacity ascending, then id),
// minimising wasted seating.
func (r *Resolver) FindAvailableTables(ctx context.Context, venueID uint64, date string, start, end, partySize int) ([]*model.Table, error) {
	if partySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be positive", ErrValidation)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	tables, err := r.tables.ListTables(ctx, venueID, partySize)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Table, 0, len(tables))
	for _, t := range tables {
		free, err := r.IsFree(ctx, t.ID, date, start, end)
		if err != nil {
			return nil, err
		}
		if free {
			out = append(out, t)
		}
	}
	return out, nil
}

// AvailableSlotsForTable enumerates every slot-aligned window of the
// requested duration within the venue's operating hours that is free
// on the table for the date.  Duration must be a positive multiple of
// the venue's slot length.  Callers use this to present choices
// without guessing a time.
func (r *Resolver) AvailableSlotsForTable(ctx context.Context, tableID, venueID uint64, date string, duration int) ([]Slot, error) {
	venue, err := r.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	table, err := r.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table.VenueID != venue.ID {
		return nil, fmt.Errorf("%w: table %d does not belong to venue %d", ErrNotFound, tableID, venueID)
	}
	if duration <= 0 || duration%venue.SlotMinutes != 0 {
		return nil, fmt.Errorf("%w: duration must be a positive multiple of %d minutes", ErrValidation, venue.SlotMinutes)
	}
	existing, err := r.reservations.ReservationsForTable(ctx, tableID, date)
	if err != nil {
		return nil, err
	}
	var windows []Slot
	for _, s := range SlotsForDay(venue) {
		end := s.Start + duration
		if end > venue.CloseMinute {
			break
		}
		blocked := false
		for _, res := range existing {
			if res.Status.Blocks() && res.Overlaps(date, s.Start, end) {
				blocked = true
				break
			}
		}
		if !blocked {
			windows = append(windows, Slot{Start: s.Start, End: end})
		}
	}
	return windows, nil
}
