package state

import (
	"errors"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
)

// Store holds the canonical value of every schema field. It is intentionally
// small and not safe for concurrent use; the controller serialises access.
type Store struct {
	schema *fieldschema.Schema
	values map[string]any
}

// NewStore builds a store seeded with the schema defaults.
func NewStore(schema *fieldschema.Schema) (*Store, error) {
	if schema == nil || schema.Len() == 0 {
		return nil, errors.New("state: schema is required")
	}
	s := &Store{schema: schema}
	s.Initialize()
	return s, nil
}

// Schema returns the schema backing the store.
func (s *Store) Schema() *fieldschema.Schema {
	if s == nil {
		return nil
	}
	return s.schema
}

// Initialize resets every field to its declared default.
func (s *Store) Initialize() {
	values := make(map[string]any, s.schema.Len())
	for _, name := range s.schema.Names() {
		def, _ := s.schema.Default(name)
		values[name] = def
	}
	s.values = values
}

// Get returns a copy of the current value for name.
func (s *Store) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[name]
	if !ok {
		return nil, false
	}
	return cloneValue(value), true
}

// Set writes value under name. The write is refused with a *SchemaViolation
// when the field is unknown or value's runtime type does not match.
func (s *Store) Set(name string, value any) error {
	t, ok := s.schema.Type(name)
	if !ok {
		return &SchemaViolation{Field: name, Value: value}
	}
	if !t.Matches(value) {
		return &SchemaViolation{Field: name, Expected: t, Value: value}
	}
	if list, ok := value.([]int); ok && list == nil {
		value = []int{}
	}
	s.values[name] = cloneValue(value)
	return nil
}

// Snapshot returns an immutable copy of the full state.
func (s *Store) Snapshot() Snapshot {
	return newSnapshot(s.schema, s.values)
}

func cloneValue(value any) any {
	if list, ok := value.([]int); ok {
		return append([]int{}, list...)
	}
	return value
}
