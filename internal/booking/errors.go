// Package booking implements the reservation availability engine: slot
// enumeration over a venue's operating calendar, conflict-free window
// resolution and the reservation lifecycle state machine.  It defines
// the error taxonomy shared by the storage and HTTP layers; callers
// distinguish failure kinds with errors.Is.
package booking

import "errors"

// ErrValidation is returned for malformed or out-of-range input, such
// as a non-positive capacity or an end time at or before the start.
// Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrCapacity is returned when a party size exceeds the capacity of
// the requested table.  Handlers map it to HTTP 422.
var ErrCapacity = errors.New("party size exceeds table capacity")

// ErrOutOfHours is returned when a requested window falls outside the
// venue's operating slots.  Handlers map it to HTTP 422.
var ErrOutOfHours = errors.New("window outside operating hours")

// ErrConflict is returned when an overlapping reservation exists at
// commit time.  It is expected under concurrent load and cheap to
// retry; callers re-query availability and resubmit.  HTTP 409.
var ErrConflict = errors.New("conflicting reservation")

// ErrInvalidTransition is returned for an illegal status change, e.g.
// confirming an already-confirmed reservation.  HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNotFound is returned when a venue, table or reservation id is
// unknown.  HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrStorage wraps storage-layer I/O failures.  The engine never
// retries these; retry policy belongs to the caller.  HTTP 500.
var ErrStorage = errors.New("storage failure")
