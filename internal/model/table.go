package model

import "time"

// Table describes a bookable table inside a venue.  Each table has a
// fixed seating capacity and an active flag.  Deactivated tables
// accept no new reservations but keep their existing ones.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue to which this table belongs.
//  Label     – human readable table label (e.g. "T4", "window-2").
//  Capacity  – number of seats; always positive.
//  IsActive  – whether the table accepts new reservations.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    // tables.id
	VenueID   uint64    // tables.venue_id
	Label     string    // tables.label
	Capacity  int       // tables.capacity
	IsActive  bool      // tables.is_active
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}
