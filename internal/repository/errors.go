// Package repository implements MySQL persistence for map documents and
// zone catalogs. Sentinel errors shared across repositories live here so
// handlers can map failure modes to HTTP statuses with errors.Is.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete the active map of a room. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
