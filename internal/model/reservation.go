package model

import (
	"strings"
	"time"
)

// ReservationStatus enumerates the lifecycle states of a reservation.
// A reservation starts as PENDING, may be CONFIRMED, and ends up
// CANCELLED.  Cancelled is terminal.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// ParseReservationStatus maps a request string onto a known status.
// Matching ignores case; clients send "confirmed" and "CONFIRMED"
// alike.  It returns false for anything outside the enumeration.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch st := ReservationStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the state machine allows moving from
// the current status to next.  PENDING may become CONFIRMED or
// CANCELLED, CONFIRMED may only become CANCELLED, and CANCELLED
// accepts nothing further.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// Blocks reports whether a reservation in this status occupies its
// time window for conflict purposes.  Cancelled reservations never
// block a new booking.
func (s ReservationStatus) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation records a customer's booking of one table for a time
// window on a calendar day.  Reservations are never deleted;
// cancellation is a status change so history is preserved.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – customer who made the reservation.
//  TableID        – table being reserved.
//  Date           – calendar day in YYYY-MM-DD form (venue-local).
//  StartMinute    – window start, minutes since midnight, inclusive.
//  EndMinute      – window end, minutes since midnight, exclusive.
//  PartySize      – number of guests; never exceeds table capacity.
//  Status         – lifecycle state (PENDING, CONFIRMED, CANCELLED).
//  SpecialRequest – optional free text passed through unvalidated.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last modification timestamp.
type Reservation struct {
	ID             uint64            // reservations.id
	UserID         uint64            // reservations.user_id
	TableID        uint64            // reservations.table_id
	Date           string            // reservations.booking_date
	StartMinute    int               // reservations.start_minute
	EndMinute      int               // reservations.end_minute
	PartySize      int               // reservations.party_size
	Status         ReservationStatus // reservations.status
	SpecialRequest string            // reservations.special_request
	CreatedAt      time.Time         // reservations.created_at
	UpdatedAt      time.Time         // reservations.updated_at
}

// Overlaps reports whether the reservation's [start,end) window shares
// any point with [start,end) on the same date.  Windows that merely
// touch (one ending exactly when the other begins) do not overlap.
func (r *Reservation) Overlaps(date string, start, end int) bool {
	return r.Date == date && r.StartMinute < end && start < r.EndMinute
}
