package fieldschema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errFieldNameMissing = errors.New("fieldschema: field name is required")
	errNoFields         = errors.New("fieldschema: at least one field is required")
)

// Schema is the ordered, immutable set of fields a controller manages.
type Schema struct {
	fields   []Field
	index    map[string]int
	patterns map[string]*regexp.Regexp
}

// NewSchema validates fields and returns an immutable schema. Defaults are
// normalised to their Go representation (YAML lists become []int).
func NewSchema(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errNoFields
	}

	s := &Schema{
		fields:   make([]Field, 0, len(fields)),
		index:    make(map[string]int, len(fields)),
		patterns: make(map[string]*regexp.Regexp),
	}

	for _, field := range fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return nil, errFieldNameMissing
		}
		if _, exists := s.index[field.Name]; exists {
			return nil, fmt.Errorf("fieldschema: duplicate field %q", field.Name)
		}
		if !field.Type.Valid() {
			return nil, fmt.Errorf("fieldschema: field %q has unknown type %q", field.Name, field.Type)
		}
		if field.Options != "" && field.Type != TypeInteger && field.Type != TypeIntegerList {
			return nil, fmt.Errorf("fieldschema: field %q: options require an integer or integer-list type", field.Name)
		}
		if field.AwaitOptions && field.Options == "" {
			return nil, fmt.Errorf("fieldschema: field %q awaits options but names no collection", field.Name)
		}

		if field.Default != nil {
			normalized, err := normalizeDefault(field.Type, field.Default)
			if err != nil {
				return nil, fmt.Errorf("fieldschema: field %q default: %w", field.Name, err)
			}
			field.Default = normalized
		}

		if field.Pattern != "" {
			// Native pattern attributes match the whole value.
			re, err := regexp.Compile("^(?:" + field.Pattern + ")$")
			if err != nil {
				return nil, fmt.Errorf("fieldschema: field %q pattern: %w", field.Name, err)
			}
			s.patterns[field.Name] = re
		}

		s.index[field.Name] = len(s.fields)
		s.fields = append(s.fields, field)
	}

	return s, nil
}

// MustSchema is NewSchema for static declarations; it panics on error.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the field declared under name.
func (s *Schema) Lookup(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	idx, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[idx], true
}

// Type returns the primitive type for name.
func (s *Schema) Type(name string) (PrimitiveType, bool) {
	field, ok := s.Lookup(name)
	if !ok {
		return "", false
	}
	return field.Type, true
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.fields))
	for _, field := range s.fields {
		out = append(out, field.Name)
	}
	return out
}

// Len reports the number of fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Default returns a fresh copy of the initial value for name.
func (s *Schema) Default(name string) (any, bool) {
	field, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}
	if field.Default == nil {
		return field.Type.Zero(), true
	}
	if list, ok := field.Default.([]int); ok {
		return append([]int{}, list...), true
	}
	return field.Default, true
}

// Pattern returns the compiled, fully anchored pattern for name.
func (s *Schema) Pattern(name string) (*regexp.Regexp, bool) {
	if s == nil {
		return nil, false
	}
	re, ok := s.patterns[name]
	return re, ok
}

// Collections returns the distinct option collection names in field order.
func (s *Schema) Collections() []string {
	if s == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, field := range s.fields {
		if field.Options == "" {
			continue
		}
		if _, ok := seen[field.Options]; ok {
			continue
		}
		seen[field.Options] = struct{}{}
		out = append(out, field.Options)
	}
	return out
}

func normalizeDefault(t PrimitiveType, value any) (any, error) {
	switch t {
	case TypeText:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case TypeBoolean:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case TypeInteger:
		if v, ok := toInt(value); ok {
			return v, nil
		}
	case TypeIntegerList:
		switch v := value.(type) {
		case []int:
			return append([]int{}, v...), nil
		case []any:
			out := make([]int, 0, len(v))
			for _, item := range v {
				n, ok := toInt(item)
				if !ok {
					return nil, fmt.Errorf("list item %v is not an integer", item)
				}
				out = append(out, n)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) does not match type %s", value, value, t)
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
