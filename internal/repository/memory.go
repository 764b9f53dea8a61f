package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/model"
)

// MemoryStore is an in-memory implementation of every store interface
// in this package and in the booking package.  It backs the test
// suite and the STORE_BACKEND=memory mode, where the service runs
// without a database (state is lost on restart).  All methods are
// safe for concurrent use; records are copied on the way in and out
// so callers never share memory with the store.
type MemoryStore struct {
	mu sync.RWMutex

	venues       map[uint64]*model.Venue
	tables       map[uint64]*model.Table
	reservations map[uint64]*model.Reservation
	users        map[uint64]*model.User
	usersByEmail map[string]uint64
	tokens       map[string]*model.RefreshToken

	nextVenueID       uint64
	nextTableID       uint64
	nextReservationID uint64
	nextUserID        uint64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		venues:       make(map[uint64]*model.Venue),
		tables:       make(map[uint64]*model.Table),
		reservations: make(map[uint64]*model.Reservation),
		users:        make(map[uint64]*model.User),
		usersByEmail: make(map[string]uint64),
		tokens:       make(map[string]*model.RefreshToken),
	}
}

// ---- venues ----

func (s *MemoryStore) CreateVenue(_ context.Context, v *model.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextVenueID++
	now := time.Now().UTC()
	v.ID = s.nextVenueID
	v.CreatedAt = now
	v.UpdatedAt = now
	cp := *v
	s.venues[v.ID] = &cp
	return nil
}

func (s *MemoryStore) GetVenue(_ context.Context, id uint64) (*model.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venues[id]
	if !ok {
		return nil, fmt.Errorf("%w: venue %d", booking.ErrNotFound, id)
	}
	cp := *v
	return &cp, nil
}

func (s *MemoryStore) ListVenues(_ context.Context) ([]*model.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- tables ----

func (s *MemoryStore) CreateTable(_ context.Context, t *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.venues[t.VenueID]; !ok {
		return fmt.Errorf("%w: venue %d", booking.ErrNotFound, t.VenueID)
	}
	s.nextTableID++
	now := time.Now().UTC()
	t.ID = s.nextTableID
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	s.tables[t.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTable(_ context.Context, id uint64) (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: table %d", booking.ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListTables(_ context.Context, venueID uint64, minCapacity int) ([]*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Table, 0)
	for _, t := range s.tables {
		if t.VenueID == venueID && t.IsActive && t.Capacity >= minCapacity {
			cp := *t
			out = append(out, &cp)
		}
	}
	sortTables(out)
	return out, nil
}

func (s *MemoryStore) ListAllTables(_ context.Context, venueID uint64) ([]*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Table, 0)
	for _, t := range s.tables {
		if t.VenueID == venueID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sortTables(out)
	return out, nil
}

// sortTables applies the registry ordering contract: capacity
// ascending, then id.
func sortTables(ts []*model.Table) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Capacity != ts[j].Capacity {
			return ts[i].Capacity < ts[j].Capacity
		}
		return ts[i].ID < ts[j].ID
	})
}

func (s *MemoryStore) SetTableActive(_ context.Context, tableID uint64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[tableID]
	if !ok {
		return fmt.Errorf("%w: table %d", booking.ErrNotFound, tableID)
	}
	t.IsActive = active
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ---- reservations ----

func (s *MemoryStore) Insert(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReservationID++
	now := time.Now().UTC()
	r.ID = s.nextReservationID
	r.CreatedAt = now
	r.UpdatedAt = now
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *MemoryStore) GetReservation(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %d", booking.ErrNotFound, id)
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ReservationsForTable(_ context.Context, tableID uint64, date string) ([]*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Reservation, 0)
	for _, r := range s.reservations {
		if r.TableID == tableID && r.Date == date {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ReservationsByUser(_ context.Context, userID uint64) ([]*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Reservation, 0)
	for _, r := range s.reservations {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	// Newest first: date desc, then start desc, then id desc.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute > out[j].StartMinute
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id uint64, status model.ReservationStatus) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %d", booking.ErrNotFound, id)
	}
	// The lifecycle guard runs under the write lock so a concurrent
	// transition cannot slip in between check and write.
	if !r.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", booking.ErrInvalidTransition, r.Status, status)
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	cp := *r
	return &cp, nil
}

// ---- users ----

func (s *MemoryStore) CreateUser(_ context.Context, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByEmail[email]; ok {
		return 0, ErrEmailExists
	}
	s.nextUserID++
	now := time.Now().UTC()
	s.users[s.nextUserID] = &model.User{
		ID:           s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.usersByEmail[email] = s.nextUserID
	return s.nextUserID, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

// ---- refresh tokens ----

func (s *MemoryStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = &model.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *MemoryStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return 0, sql.ErrNoRows
	}
	return t.UserID, nil
}

func (s *MemoryStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
	}
	return nil
}

func (s *MemoryStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, t := range s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}
