// Package store persists computed layouts for the serve mode.
//
// The Store interface has two implementations:
//   - MemoryStore: in-process storage for development and testing
//   - MongoStore: MongoDB-backed storage for deployments where layouts
//     must survive restarts and be shared across instances
//
// Records are keyed by server-assigned IDs; the layout payload reuses the
// bson tags on the graph types, so there is no second schema to maintain.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/knotworks/forcemap/pkg/graph"
)

// ErrNotFound is returned when a requested layout does not exist.
var ErrNotFound = errors.New("layout not found")

// Record is one stored layout with its metadata.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
}

// Store saves and retrieves computed layouts.
type Store interface {
	// Put stores a record. An existing record with the same ID is replaced.
	Put(ctx context.Context, rec Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
