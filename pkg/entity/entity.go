// Package entity defines the input records for graph visualization.
//
// An Entity is one visualized item (a UI component, a service, a package)
// carrying a stable identifier, a display label, string-valued grouping
// attributes, and a numeric weight. Entities are supplied externally per
// visualization request and are never persisted by this library.
package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors for entity validation.
var (
	// ErrEmptyID is returned when an entity has no identifier.
	ErrEmptyID = errors.New("entity ID must not be empty")

	// ErrDuplicateID is returned when two entities share an identifier.
	ErrDuplicateID = errors.New("duplicate entity ID")
)

// Entity is one input record for a visualization request.
type Entity struct {
	ID     string            `json:"id" bson:"id"`
	Label  string            `json:"label,omitempty" bson:"label,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty" bson:"attrs,omitempty"`
	Weight float64           `json:"weight,omitempty" bson:"weight,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (e *Entity) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// Attr returns the value of the named grouping attribute.
// A missing attribute yields the empty string, which groups all
// attribute-less entities together rather than failing.
func (e *Entity) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// Validate checks that every entity has a non-empty, unique ID.
// Returns ErrEmptyID or ErrDuplicateID wrapped with the offending position.
func Validate(entities []Entity) error {
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if e.ID == "" {
			return fmt.Errorf("entity %d: %w", i, ErrEmptyID)
		}
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("entity %d (%s): %w", i, e.ID, ErrDuplicateID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// ReadEntities decodes a JSON array of entities from r and validates it.
// Input order is preserved - it determines chaining order downstream.
func ReadEntities(r io.Reader) ([]Entity, error) {
	var entities []Entity
	if err := json.NewDecoder(r).Decode(&entities); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := Validate(entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// ReadEntitiesFile reads a JSON entity file from disk.
func ReadEntitiesFile(path string) ([]Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEntities(f)
}
