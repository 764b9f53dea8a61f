package repository

import (
	"context"
	"time"

	"github.com/aylinvena/table-reservation/internal/model"
)

// RegistryStore covers venue and table administration beyond the
// read-only interfaces the booking engine consumes.  Created records
// get their ID and timestamps populated on return.
type RegistryStore interface {
	CreateVenue(ctx context.Context, v *model.Venue) error
	ListVenues(ctx context.Context) ([]*model.Venue, error)
	GetVenue(ctx context.Context, id uint64) (*model.Venue, error)
	CreateTable(ctx context.Context, t *model.Table) error
	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	SetTableActive(ctx context.Context, tableID uint64, active bool) error
	// ListTables returns the venue's active tables seating at least
	// minCapacity, ordered by capacity ascending then id.
	ListTables(ctx context.Context, venueID uint64, minCapacity int) ([]*model.Table, error)
	// ListAllTables returns every table of the venue, active or not,
	// ordered by capacity ascending then id.
	ListAllTables(ctx context.Context, venueID uint64) ([]*model.Table, error)
}

// LedgerReader provides the reservation views that are not part of
// the engine's conflict-scan contract: per-user listings and single
// lookups for ownership checks.
type LedgerReader interface {
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	// ReservationsByUser returns the user's reservations newest first.
	ReservationsByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error)
}

// UserStore persists user accounts.  CreateUser receives an already
// hashed password; lookups by unknown email or id return
// sql.ErrNoRows regardless of backend.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (uint64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	// ValidateRefresh returns the owning user ID when a non-revoked,
	// non-expired token with the hash exists; sql.ErrNoRows otherwise.
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}
