package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
)

// ReservationRepo is the reservation ledger backed by the
// `reservations` table.  Rows are never deleted; cancellation is a
// status update so the full booking history survives.  Date columns
// use the MySQL DATE type and are handled as YYYY-MM-DD strings;
// window bounds are minute-of-day integers, so no timezone arithmetic
// happens in SQL.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, table_id, DATE_FORMAT(booking_date, '%Y-%m-%d'),
	start_minute, end_minute, party_size, status, special_request, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var (
		res     model.Reservation
		status  string
		special sql.NullString
	)
	err := row.Scan(&res.ID, &res.UserID, &res.TableID, &res.Date,
		&res.StartMinute, &res.EndMinute, &res.PartySize, &status, &special,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Status = model.ReservationStatus(status)
	if special.Valid {
		res.SpecialRequest = special.String
	}
	return &res, nil
}

// ReservationsForTable returns every reservation of the table on the
// date, ordered by start minute.  This is the scan set for conflict
// checks; it includes cancelled rows, which the resolver filters via
// Status.Blocks so the same listing serves the day-view endpoint.
func (r *ReservationRepo) ReservationsForTable(ctx context.Context, tableID uint64, date string) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE table_id = ? AND booking_date = ?
	           ORDER BY start_minute, id`
	return r.queryReservations(ctx, q, tableID, date)
}

// ReservationsByUser returns the user's reservations newest first.
func (r *ReservationRepo) ReservationsByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE user_id = ?
	           ORDER BY booking_date DESC, start_minute DESC, id DESC`
	return r.queryReservations(ctx, q, userID)
}

func (r *ReservationRepo) queryReservations(ctx context.Context, q string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list reservations: %v", booking.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan reservation: %v", booking.ErrStorage, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list reservations: %v", booking.ErrStorage, err)
	}
	return out, nil
}

// Insert appends a new reservation row and populates the generated ID
// and timestamps on the record.  It performs no conflict check of its
// own; the engine calls it inside the table's critical section.  The
// insert runs in a transaction so a torn write cannot persist.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin insert: %v", booking.ErrStorage, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO reservations
	    (user_id, table_id, booking_date, start_minute, end_minute, party_size, status, special_request)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, qInsert,
		res.UserID, res.TableID, res.Date, res.StartMinute, res.EndMinute,
		res.PartySize, string(res.Status), nullIfEmpty(res.SpecialRequest))
	if err != nil {
		return fmt.Errorf("%w: insert reservation: %v", booking.ErrStorage, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: reservation id: %v", booking.ErrStorage, err)
	}
	res.ID = uint64(id)

	const qSelect = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	stored, err := scanReservation(tx.QueryRowContext(ctx, qSelect, res.ID))
	if err != nil {
		return fmt.Errorf("%w: reread reservation: %v", booking.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit insert: %v", booking.ErrStorage, err)
	}
	committed = true
	*res = *stored
	return nil
}

// GetReservation returns a single reservation by id, or
// booking.ErrNotFound when the id is unknown.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reservation %d", booking.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get reservation: %v", booking.ErrStorage, err)
	}
	return res, nil
}

// UpdateStatus applies a lifecycle transition and refreshes the
// last-modified timestamp.  The WHERE clause restricts the write to
// the legal predecessor statuses of the target, so the guard and the
// write are a single statement; two concurrent transitions can never
// both pass the check and a CANCELLED row stays CANCELLED.  Returns
// booking.ErrInvalidTransition when the current status refuses the
// move and booking.ErrNotFound for an unknown id.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) (*model.Reservation, error) {
	var from []any
	switch status {
	case model.StatusConfirmed:
		from = []any{string(model.StatusPending)}
	case model.StatusCancelled:
		from = []any{string(model.StatusPending), string(model.StatusConfirmed)}
	default:
		return nil, fmt.Errorf("%w: no transition to %s", booking.ErrInvalidTransition, status)
	}

	q := `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
	      WHERE id = ? AND status IN (?` + strings.Repeat(", ?", len(from)-1) + `)`
	args := append([]any{string(status), id}, from...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", booking.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", booking.ErrStorage, err)
	}
	if n == 0 {
		// Unknown id and illegal transition both leave zero rows; the
		// read back distinguishes them.
		current, err := r.GetReservation(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s -> %s", booking.ErrInvalidTransition, current.Status, status)
	}
	return r.GetReservation(ctx, id)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
