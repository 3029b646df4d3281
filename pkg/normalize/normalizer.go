package normalize

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
)

// Writer is the store seam the normalizer commits through.
type Writer interface {
	Set(name string, value any) error
}

// OptionLookup exposes loaded option collections for membership checks.
type OptionLookup interface {
	Get(name string) (options.Collection, bool)
}

// Normalizer is the single path from raw control values to typed state
// writes.
type Normalizer struct {
	schema  *fieldschema.Schema
	store   Writer
	options OptionLookup
}

// New constructs a normalizer. lookup may be nil when no field has options.
func New(schema *fieldschema.Schema, store Writer, lookup OptionLookup) (*Normalizer, error) {
	if schema == nil {
		return nil, errors.New("normalize: schema is required")
	}
	if store == nil {
		return nil, errors.New("normalize: store is required")
	}
	return &Normalizer{schema: schema, store: store, options: lookup}, nil
}

// Coerce converts raw into field's declared type without writing it.
func (n *Normalizer) Coerce(field string, raw RawControl) (any, error) {
	def, ok := n.schema.Lookup(field)
	if !ok {
		return nil, &CoercionError{Field: field, Raw: raw, Err: ErrUnknownField}
	}

	fn, ok := lookupCoercion(raw.Kind, def.Type)
	if !ok {
		return nil, &CoercionError{
			Field: field,
			Raw:   raw,
			Err:   fmt.Errorf("%w: %s control for %s field", ErrControlMismatch, raw.Kind, def.Type),
		}
	}

	value, err := fn(raw)
	if err != nil {
		return nil, &CoercionError{Field: field, Raw: raw, Err: err}
	}

	if err := n.checkMembership(def, value); err != nil {
		return nil, &CoercionError{Field: field, Raw: raw, Err: err}
	}
	return value, nil
}

// Apply coerces raw and writes the result to the store. A *CoercionError
// leaves the field untouched; a store error (a schema violation) is returned
// unchanged.
func (n *Normalizer) Apply(field string, raw RawControl) (any, error) {
	value, err := n.Coerce(field, raw)
	if err != nil {
		return nil, err
	}
	if err := n.store.Set(field, value); err != nil {
		return nil, err
	}
	return value, nil
}

// checkMembership rejects ids absent from the field's collection. Until the
// collection is Ready there are no rendered choices, so only the empty value
// is accepted.
func (n *Normalizer) checkMembership(def fieldschema.Field, value any) error {
	if def.Options == "" || n.options == nil {
		return nil
	}
	coll, ok := n.options.Get(def.Options)
	ready := ok && coll.Status == options.StatusReady
	switch v := value.(type) {
	case int:
		if v == fieldschema.Unset {
			return nil
		}
		if !ready {
			return fmt.Errorf("%w: %q is %s", ErrOptionsNotReady, def.Options, statusOf(coll, ok))
		}
		if !coll.Contains(v) {
			return fmt.Errorf("%w: %d", ErrUnknownOption, v)
		}
	case []int:
		if len(v) == 0 {
			return nil
		}
		if !ready {
			return fmt.Errorf("%w: %q is %s", ErrOptionsNotReady, def.Options, statusOf(coll, ok))
		}
		for _, id := range v {
			if !coll.Contains(id) {
				return fmt.Errorf("%w: %d", ErrUnknownOption, id)
			}
		}
	}
	return nil
}

func statusOf(coll options.Collection, ok bool) options.Status {
	if !ok {
		return options.StatusPending
	}
	return coll.Status
}
