package model

import "time"

// Venue represents a restaurant location owned by a user.  A venue
// owns its tables exclusively and carries the operating calendar used
// to enumerate booking slots.  This struct corresponds to a row in
// the `venues` table.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the venue owner.
//  Name        – unique name of the venue per owner.
//  OpenMinute  – opening time as minutes since midnight (venue-local).
//  CloseMinute – closing time as minutes since midnight; always greater
//                than OpenMinute.
//  SlotMinutes – slot granularity in minutes (e.g. 30).
//  CreatedAt   – timestamp when the venue was created.
//  UpdatedAt   – timestamp of last update.
type Venue struct {
	ID          uint64    // venues.id
	OwnerID     uint64    // venues.owner_id
	Name        string    // venues.name
	OpenMinute  int       // venues.open_minute
	CloseMinute int       // venues.close_minute
	SlotMinutes int       // venues.slot_minutes
	CreatedAt   time.Time // venues.created_at
	UpdatedAt   time.Time // venues.updated_at
}
