// Package fieldschema declares the fields a form controller manages and the
// primitive type each one holds.
//
// A Schema is immutable once built. Every other package resolves field types,
// defaults, option collections and constraint attributes through it, so
// adding a field means adding one Field entry:
//
//	s := fieldschema.MustSchema(
//		fieldschema.Field{Name: "name", Type: fieldschema.TypeText},
//		fieldschema.Field{Name: "eyeColor", Type: fieldschema.TypeInteger, Required: true, Options: "eyeColors"},
//	)
//
// Integer fields start at Unset rather than zero so an unselected radio group
// is distinguishable from one with option 0 selected.
package fieldschema
