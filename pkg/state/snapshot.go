package state

import (
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
)

// Snapshot is an immutable copy of the form state at one point in time. Every
// accessor returns copies, so later store mutations are never observable
// through a snapshot and callers cannot mutate it.
type Snapshot struct {
	schema *fieldschema.Schema
	values map[string]any
}

func newSnapshot(schema *fieldschema.Schema, values map[string]any) Snapshot {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = cloneValue(v)
	}
	return Snapshot{schema: schema, values: out}
}

// Value returns the typed value stored for name.
func (s Snapshot) Value(name string) (any, bool) {
	v, ok := s.values[name]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Text returns a text field's value.
func (s Snapshot) Text(name string) string {
	v, _ := s.values[name].(string)
	return v
}

// Integer returns an integer field's value; ok is false when it is Unset or
// the field is not an integer.
func (s Snapshot) Integer(name string) (int, bool) {
	v, ok := s.values[name].(int)
	if !ok || v == fieldschema.Unset {
		return fieldschema.Unset, false
	}
	return v, true
}

// Bool returns a boolean field's value.
func (s Snapshot) Bool(name string) bool {
	v, _ := s.values[name].(bool)
	return v
}

// IntegerList returns a copy of a list field's value.
func (s Snapshot) IntegerList(name string) []int {
	v, _ := s.values[name].([]int)
	return append([]int{}, v...)
}

// Map returns a copy of every value keyed by field name. Unset integers keep
// the fieldschema.Unset sentinel.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = cloneValue(v)
	}
	return out
}

// Payload returns the wire form of the snapshot: Unset integers become nil.
func (s Snapshot) Payload() map[string]any {
	out := s.Map()
	for k, v := range out {
		if n, ok := v.(int); ok && n == fieldschema.Unset {
			out[k] = nil
		}
	}
	return out
}

// Equal reports whether two snapshots hold the same values.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok {
			return false
		}
		if !equalValue(v, ov) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes Payload.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Payload())
}

// Schema returns the schema the snapshot was taken against.
func (s Snapshot) Schema() *fieldschema.Schema {
	return s.schema
}

func equalValue(a, b any) bool {
	la, aList := a.([]int)
	lb, bList := b.([]int)
	if aList || bList {
		if !aList || !bList || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
		return true
	}
	return a == b
}
