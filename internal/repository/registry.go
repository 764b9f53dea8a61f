package repository

import "database/sql"

// Registry combines the venue and table repositories into a single
// RegistryStore for the MySQL backend.  The embedded repos contribute
// their method sets; MemoryStore satisfies the same interface on its
// own.
type Registry struct {
	*VenueRepo
	*TableRepo
}

// NewRegistry builds a Registry over one database handle.
func NewRegistry(db *sql.DB) Registry {
	return Registry{
		VenueRepo: NewVenueRepo(db),
		TableRepo: NewTableRepo(db),
	}
}
