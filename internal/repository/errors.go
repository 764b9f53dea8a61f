// Package repository implements durable storage for the table
// registry, the reservation ledger and user accounts.  Two backends
// exist: MySQL repositories built on raw database/sql, and
// an in-memory store used for tests and for running the service
// without a database.  Both report domain failures through the
// sentinel errors of the booking package so handlers can translate
// them uniformly with errors.Is.
package repository

import "errors"

// ErrEmailExists is returned when registering a user with an email
// address that is already taken.  Handlers translate this into an
// HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
