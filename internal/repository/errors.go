// Package repository implements MySQL persistence for users, sessions,
// zones, reports, locations and per-capita records. The sentinel values
// defined here let handlers distinguish failure scenarios: for example
// ErrUsernameExists signals a duplicate collector username, while
// ErrZoneTaken signals that a zone already has a collector assigned.
package repository

import "errors"

// ErrUsernameExists is returned when an insert would violate the unique
// username constraint. Handlers translate this into an HTTP 422 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrZoneTaken is returned when a zone is already assigned to another
// collector. Each zone holds at most one collector.
var ErrZoneTaken = errors.New("zone already assigned to another collector")
