package state

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
)

// ErrSchemaViolation is matched by every *SchemaViolation via errors.Is.
var ErrSchemaViolation = errors.New("state: schema violation")

// SchemaViolation reports a write whose value does not match the declared
// field type, or a write to an undeclared field. It signals a programming
// error upstream of the store and is never caused by user input.
type SchemaViolation struct {
	Field    string
	Expected fieldschema.PrimitiveType
	Value    any
}

func (e *SchemaViolation) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("state: schema violation: unknown field %q", e.Field)
	}
	return fmt.Sprintf("state: schema violation: field %q expects %s, got %T", e.Field, e.Expected, e.Value)
}

// Is lets errors.Is(err, ErrSchemaViolation) match.
func (e *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}
