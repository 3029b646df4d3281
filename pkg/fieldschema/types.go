package fieldschema

import "math"

// PrimitiveType is the closed set of value types a field can hold.
type PrimitiveType string

const (
	TypeText        PrimitiveType = "text"
	TypeInteger     PrimitiveType = "integer"
	TypeBoolean     PrimitiveType = "boolean"
	TypeIntegerList PrimitiveType = "integer-list"
)

// Unset marks an integer field with no chosen value. Option ids can never take
// this value, so "nothing selected" stays distinct from "id 0 selected".
const Unset = math.MinInt

// Valid reports whether t is one of the declared primitive types.
func (t PrimitiveType) Valid() bool {
	switch t {
	case TypeText, TypeInteger, TypeBoolean, TypeIntegerList:
		return true
	default:
		return false
	}
}

// Zero returns the type-appropriate empty value for t.
func (t PrimitiveType) Zero() any {
	switch t {
	case TypeText:
		return ""
	case TypeInteger:
		return Unset
	case TypeBoolean:
		return false
	case TypeIntegerList:
		return []int{}
	default:
		return nil
	}
}

// Matches reports whether value's runtime type is the Go representation of t:
// string, int, bool or []int.
func (t PrimitiveType) Matches(value any) bool {
	switch t {
	case TypeText:
		_, ok := value.(string)
		return ok
	case TypeInteger:
		_, ok := value.(int)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeIntegerList:
		_, ok := value.([]int)
		return ok
	default:
		return false
	}
}

// Field describes a single form field. Constraint attributes mirror the native
// HTML attributes (required, minlength, maxlength, pattern, min, max); a zero
// value disables the constraint.
type Field struct {
	Name         string        `json:"name" yaml:"name"`
	Type         PrimitiveType `json:"type" yaml:"type"`
	Label        string        `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Widget       string        `json:"widget,omitempty" yaml:"widget,omitempty"`
	Required     bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Options      string        `json:"options,omitempty" yaml:"options,omitempty"`
	AwaitOptions bool          `json:"awaitOptions,omitempty" yaml:"awaitOptions,omitempty"`
	MinLength    int           `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength    int           `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern      string        `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min          *int          `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *int          `json:"max,omitempty" yaml:"max,omitempty"`
	Default      any           `json:"default,omitempty" yaml:"default,omitempty"`
}

// DisplayLabel falls back to the field name when no label is configured.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// GatesOnOptions reports whether the field's option collection must be loaded
// before the form can be submitted.
func (f Field) GatesOnOptions() bool {
	return f.Options != "" && (f.Required || f.AwaitOptions)
}
