// Package storage defines the Storage interface: the contract every
// backend (MongoDB, SQLite, in-memory) satisfies so the HTTP handlers
// never know which database they are talking to.
//
// Handlers depend only on this interface. Tests pass the in-memory
// backend or a stub; main picks the concrete backend from config.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/persons-app/internal/types"
)

var (
	// ErrNotFound is returned when no record matches the identifier.
	ErrNotFound = errors.New("person not found")

	// ErrInvalidID is returned when an identifier cannot belong to any
	// record of the backend (for example a non-ObjectID string in Mongo).
	ErrInvalidID = errors.New("invalid person id")
)

// UpdateResult reports what an update touched.
//
// Matched is the number of records the identifier selected (0 or 1).
// Modified is the number of records whose stored values actually
// changed; writing identical values yields Matched=1, Modified=0.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Storage is the persistence contract.
type Storage interface {
	// CreatePerson inserts a new record and returns the identifier the
	// store assigned to it. Any ID set on p is ignored.
	CreatePerson(ctx context.Context, p types.Person) (string, error)

	// GetPersonByID fetches a single record. Returns ErrNotFound when the
	// identifier matches nothing.
	GetPersonByID(ctx context.Context, id string) (types.Person, error)

	// GetPersons returns every record in store order. Returns an empty
	// slice (not nil) when there are none.
	GetPersons(ctx context.Context) ([]types.Person, error)

	// UpdatePersonByID sets all four attributes of the matching record.
	// A missing record is not an error: the result has Matched=0.
	UpdatePersonByID(ctx context.Context, id string, p types.Person) (UpdateResult, error)

	// DeletePersonByID removes the matching record and returns how many
	// records were removed (0 or 1).
	DeletePersonByID(ctx context.Context, id string) (int64, error)

	// Close releases the backend's connections.
	Close(ctx context.Context) error
}
