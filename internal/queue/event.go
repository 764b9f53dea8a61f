// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation reaches the
// CONFIRMED state.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	VenueID       uint64 `json:"venue_id"`
	VenueName     string `json:"venue_name"`
	TableID       uint64 `json:"table_id"`
	TableLabel    string `json:"table_label"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM
	EndTime       string `json:"end_time"`   // HH:MM
	PartySize     int    `json:"party_size"`
	ConfirmedAt   string `json:"confirmed_at"`
}
