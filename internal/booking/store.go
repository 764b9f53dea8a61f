package booking

import (
	"context"

	"github.com/aylinvena/table-reservation/internal/model"
)

// VenueStore provides read access to venues and their operating
// calendars.  Implementations return ErrNotFound (possibly wrapped)
// for unknown ids and wrap I/O failures in ErrStorage.
type VenueStore interface {
	GetVenue(ctx context.Context, id uint64) (*model.Venue, error)
}

// TableStore provides access to the table registry of a venue.
// ListTables must return only active tables with capacity at or above
// minCapacity, ordered by capacity ascending then id so output is
// stable across calls.
type TableStore interface {
	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	ListTables(ctx context.Context, venueID uint64, minCapacity int) ([]*model.Table, error)
}

// ReservationStore is the reservation ledger.  ReservationsForTable
// returns every reservation of the table on the given date, sorted by
// start minute; it is the scan set for conflict checks and must not
// serve stale data.  Insert appends without checking conflicts —
// conflict detection is the engine's job, performed inside the
// per-table critical section.  UpdateStatus applies the lifecycle rule
// (model.ReservationStatus.CanTransitionTo) atomically with the write:
// implementations must make it impossible for two concurrent
// transitions to both pass the check, and return ErrInvalidTransition
// when the current status refuses the move.
type ReservationStore interface {
	ReservationsForTable(ctx context.Context, tableID uint64, date string) ([]*model.Reservation, error)
	Insert(ctx context.Context, r *model.Reservation) error
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) (*model.Reservation, error)
}
