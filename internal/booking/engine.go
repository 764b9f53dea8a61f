package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/aylinvena/table-reservation/internal/model"
)

// CreateRequest carries everything needed to book a table.  The
// handler validates the wire payload once and converts it into this
// struct before any domain logic runs.
type CreateRequest struct {
	UserID         uint64
	TableID        uint64
	Date           string // YYYY-MM-DD
	StartMinute    int
	EndMinute      int
	PartySize      int
	SpecialRequest string
}

// Engine is the booking transition engine.  It owns the
// read-check-insert critical section for reservation creation and the
// lifecycle state machine for confirm and cancel.
//
// CreateBooking serialises per table: two concurrent requests for the
// same table take the same mutex, so at most one booking succeeds per
// overlapping window.  Confirm and Cancel are single-row transitions
// whose state-rule guard is atomic with the status write in the store,
// and they never take the table lock.  Locking never spans more than
// one table.
type Engine struct {
	venues       VenueStore
	tables       TableStore
	reservations ReservationStore
	resolver     *Resolver

	// ClosedFn is an optional policy hook: when set and returning true
	// for (venueID, date), the venue is closed that day and produces no
	// bookable slots.  Nil means never closed.
	ClosedFn func(venueID uint64, date string) bool

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex // per-table critical sections
}

// NewEngine constructs an Engine over the given stores.
func NewEngine(venues VenueStore, tables TableStore, reservations ReservationStore) *Engine {
	if venues == nil || tables == nil || reservations == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{
		venues:       venues,
		tables:       tables,
		reservations: reservations,
		resolver:     NewResolver(venues, tables, reservations),
		locks:        make(map[uint64]*sync.Mutex),
	}
}

// Resolver exposes the engine's availability resolver for lock-free
// display queries.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// tableLock returns the mutex serialising createBooking calls for one
// table, creating it on first use.  Locks are never discarded; the map
// grows with the number of distinct tables booked, which is bounded by
// the registry size.
func (e *Engine) tableLock(tableID uint64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[tableID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[tableID] = l
	}
	return l
}

// CreateBooking validates the request, re-checks the window under the
// table's critical section and inserts a PENDING reservation.  It
// fails with ErrCapacity when the party exceeds the table, with
// ErrOutOfHours when the window is not slot-aligned inside operating
// hours, and with ErrConflict when another pending or confirmed
// reservation overlaps the window.  A booking attempt never waits for
// a slot to free up; it either succeeds or fails fast.
func (e *Engine) CreateBooking(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	if req.PartySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be positive", ErrValidation)
	}
	if req.EndMinute <= req.StartMinute {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}

	table, err := e.tables.GetTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, fmt.Errorf("%w: table %d is not accepting reservations", ErrValidation, table.ID)
	}
	if req.PartySize > table.Capacity {
		return nil, fmt.Errorf("%w: party of %d on a table seating %d", ErrCapacity, req.PartySize, table.Capacity)
	}

	venue, err := e.venues.GetVenue(ctx, table.VenueID)
	if err != nil {
		return nil, err
	}
	if e.ClosedFn != nil && e.ClosedFn(venue.ID, req.Date) {
		return nil, fmt.Errorf("%w: venue closed on %s", ErrOutOfHours, req.Date)
	}
	if !WithinOperatingSlots(venue, req.StartMinute, req.EndMinute) {
		return nil, fmt.Errorf("%w: window %s-%s outside %s-%s slots",
			ErrOutOfHours,
			model.FormatClock(req.StartMinute), model.FormatClock(req.EndMinute),
			model.FormatClock(venue.OpenMinute), model.FormatClock(venue.CloseMinute))
	}

	// Critical section: availability must not change between the check
	// and the insert for this table.
	lock := e.tableLock(table.ID)
	lock.Lock()
	defer lock.Unlock()

	free, err := e.resolver.IsFree(ctx, table.ID, req.Date, req.StartMinute, req.EndMinute)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("%w: table %d already booked in %s-%s on %s",
			ErrConflict, table.ID,
			model.FormatClock(req.StartMinute), model.FormatClock(req.EndMinute), req.Date)
	}

	res := &model.Reservation{
		UserID:         req.UserID,
		TableID:        table.ID,
		Date:           req.Date,
		StartMinute:    req.StartMinute,
		EndMinute:      req.EndMinute,
		PartySize:      req.PartySize,
		Status:         model.StatusPending,
		SpecialRequest: req.SpecialRequest,
	}
	if err := e.reservations.Insert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Confirm moves a PENDING reservation to CONFIRMED.  Any other current
// status yields ErrInvalidTransition.
func (e *Engine) Confirm(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	return e.transition(ctx, reservationID, model.StatusConfirmed)
}

// Cancel moves a PENDING or CONFIRMED reservation to CANCELLED.
// Cancelling an already-cancelled reservation yields
// ErrInvalidTransition.  Cancellation frees the window for new
// bookings immediately.
func (e *Engine) Cancel(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	return e.transition(ctx, reservationID, model.StatusCancelled)
}

// Transition applies an explicit target status, used by the status
// endpoint after parsing the request body.
func (e *Engine) Transition(ctx context.Context, reservationID uint64, next model.ReservationStatus) (*model.Reservation, error) {
	return e.transition(ctx, reservationID, next)
}

// The guard and the write must be one atomic step, so the transition
// rule is enforced inside the store's UpdateStatus rather than checked
// here first: a read-check-write split would let a concurrent Confirm
// overwrite a CANCELLED row.
func (e *Engine) transition(ctx context.Context, reservationID uint64, next model.ReservationStatus) (*model.Reservation, error) {
	return e.reservations.UpdateStatus(ctx, reservationID, next)
}
