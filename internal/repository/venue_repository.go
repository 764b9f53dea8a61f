package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
)

// VenueRepo provides access to the `venues` table.  It embeds a
// database handle to perform queries and commands.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, owner_id, name, open_minute, close_minute, slot_minutes, created_at, updated_at`

func scanVenue(row interface{ Scan(...any) error }) (*model.Venue, error) {
	var v model.Venue
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.OpenMinute, &v.CloseMinute, &v.SlotMinutes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVenue inserts a new venue.  OwnerID, Name and the operating
// calendar must be set; the generated ID and timestamps are read back
// onto the record.
func (r *VenueRepo) CreateVenue(ctx context.Context, v *model.Venue) error {
	const qInsert = `INSERT INTO venues (owner_id, name, open_minute, close_minute, slot_minutes)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, v.OwnerID, v.Name, v.OpenMinute, v.CloseMinute, v.SlotMinutes)
	if err != nil {
		return fmt.Errorf("%w: insert venue: %v", booking.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: venue id: %v", booking.ErrStorage, err)
	}
	v.ID = uint64(id)

	// Read the row back so created_at/updated_at reflect DB defaults.
	const qSelect = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	stored, err := scanVenue(r.db.QueryRowContext(ctx, qSelect, v.ID))
	if err != nil {
		return fmt.Errorf("%w: reread venue: %v", booking.ErrStorage, err)
	}
	*v = *stored
	return nil
}

// GetVenue retrieves a venue by ID.  It returns booking.ErrNotFound
// when no row exists.
func (r *VenueRepo) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: venue %d", booking.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get venue: %v", booking.ErrStorage, err)
	}
	return v, nil
}

// ListVenues returns all venues ordered by id, used by the public
// browse endpoint.
func (r *VenueRepo) ListVenues(ctx context.Context) ([]*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list venues: %v", booking.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]*model.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan venue: %v", booking.ErrStorage, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list venues: %v", booking.ErrStorage, err)
	}
	return out, nil
}
