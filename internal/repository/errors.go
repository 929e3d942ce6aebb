// Package repository defines error values shared across repositories.
// These sentinels let handlers distinguish failure scenarios without
// inspecting driver errors. Domain-level sentinels that the booking
// engine needs (ErrNotExists, ErrOverlap, ErrStale) live in the booking
// package; repositories translate driver errors onto those before
// returning.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot proceed
// because of dependent records, such as deleting a table type that
// still has tables referencing it. Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrNameExists is returned when an insert violates a unique name
// constraint (table type names, table codes). Handlers translate this
// into an HTTP 409 response.
var ErrNameExists = errors.New("name already exists")
