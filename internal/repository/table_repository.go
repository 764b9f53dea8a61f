package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
)

// TableRepo provides access to the `tables` table: the registry of
// bookable tables per venue.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, venue_id, label, capacity, is_active, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var t model.Table
	err := row.Scan(&t.ID, &t.VenueID, &t.Label, &t.Capacity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTable registers a new table under its venue.  Capacity must be
// positive; that rule is enforced by the handler before it reaches the
// repository.  The generated ID and timestamps are read back.
func (r *TableRepo) CreateTable(ctx context.Context, t *model.Table) error {
	const qInsert = `INSERT INTO tables (venue_id, label, capacity, is_active) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.VenueID, t.Label, t.Capacity, t.IsActive)
	if err != nil {
		return fmt.Errorf("%w: insert table: %v", booking.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: table id: %v", booking.ErrStorage, err)
	}
	t.ID = uint64(id)

	const qSelect = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	stored, err := scanTable(r.db.QueryRowContext(ctx, qSelect, t.ID))
	if err != nil {
		return fmt.Errorf("%w: reread table: %v", booking.ErrStorage, err)
	}
	*t = *stored
	return nil
}

// GetTable retrieves a table by ID regardless of its active flag.  It
// returns booking.ErrNotFound when no row exists.
func (r *TableRepo) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: table %d", booking.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get table: %v", booking.ErrStorage, err)
	}
	return t, nil
}

// ListTables returns the venue's active tables with capacity at or
// above minCapacity, ordered by capacity ascending then id.  The
// ordering is part of the availability contract: the smallest
// adequate table is offered first.
func (r *TableRepo) ListTables(ctx context.Context, venueID uint64, minCapacity int) ([]*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables
	           WHERE venue_id = ? AND is_active = TRUE AND capacity >= ?
	           ORDER BY capacity, id`
	return r.queryTables(ctx, q, venueID, minCapacity)
}

// ListAllTables returns every table of the venue, active or not, with
// the same deterministic ordering.  Used by owner endpoints.
func (r *TableRepo) ListAllTables(ctx context.Context, venueID uint64) ([]*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE venue_id = ? ORDER BY capacity, id`
	return r.queryTables(ctx, q, venueID)
}

func (r *TableRepo) queryTables(ctx context.Context, q string, args ...any) ([]*model.Table, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %v", booking.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]*model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan table: %v", booking.ErrStorage, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables: %v", booking.ErrStorage, err)
	}
	return out, nil
}

// SetTableActive flips the active flag.  Deactivating a table does not
// touch its existing reservations; they remain honored.  Returns
// booking.ErrNotFound for an unknown id.
func (r *TableRepo) SetTableActive(ctx context.Context, tableID uint64, active bool) error {
	const q = `UPDATE tables SET is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, tableID)
	if err != nil {
		return fmt.Errorf("%w: set table active: %v", booking.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: set table active: %v", booking.ErrStorage, err)
	}
	if n == 0 {
		// RowsAffected is also zero when the flag already had the
		// requested value, so verify existence before reporting.
		if _, err := r.GetTable(ctx, tableID); err != nil {
			return err
		}
	}
	return nil
}
