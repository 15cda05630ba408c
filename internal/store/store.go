package store

import (
	"context"
	"errors"

	"dubexpo/internal/model"
)

var (
	// ErrPermissionDenied maps the backend's access-policy rejection on
	// insert. It carries its own error code at the transport edge so the
	// form can show a remediation message instead of a generic failure.
	ErrPermissionDenied = errors.New("permission denied by storage policy")

	ErrRegistrationNotFound = errors.New("registration not found")
)

// Store is the persistence contract shared by both backends.
//
// Error policy, deliberately asymmetric and kept from the system this
// replaces: List failures are logged by the caller and degrade to an empty
// collection; Create failures are surfaced to the submitter; UpdateStatus
// and Delete treat a missing id as a no-op and only fail on transport
// errors.
type Store interface {
	// List returns all registrations ordered by creation date descending.
	List(ctx context.Context) ([]model.Registration, error)
	// Create inserts one registration, assigning id and creation date and
	// forcing status to pending regardless of caller input.
	Create(ctx context.Context, in model.RegistrationInput) (string, error)
	// UpdateStatus overwrites the status of the matching registration.
	// No-op when id does not exist.
	UpdateStatus(ctx context.Context, id, status string) error
	// Delete removes the matching registration. No-op when id does not exist.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Maintainer is the optional capability of the file-backed store: raw
// snapshot download and wipe-all. The postgres backend does not implement it.
type Maintainer interface {
	Snapshot() ([]byte, error)
	Wipe(ctx context.Context) error
}
