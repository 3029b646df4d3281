// Package constraints evaluates the native constraint attributes a browser
// would enforce on form controls (minlength, maxlength, pattern, min, max)
// against a state snapshot. Empty values skip every rule except required,
// which the validity gate owns.
package constraints

import (
	"fmt"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Rule names reported in violations.
const (
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleMin       = "min"
	RuleMax       = "max"
)

// Violation is a single failed constraint.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Checker validates snapshots against a schema's constraint attributes.
type Checker struct {
	schema *fieldschema.Schema
}

// New constructs a Checker for schema.
func New(schema *fieldschema.Schema) *Checker {
	return &Checker{schema: schema}
}

// Check returns every violation in field order; nil means valid.
func (c *Checker) Check(snap state.Snapshot) []Violation {
	if c == nil || c.schema == nil {
		return nil
	}
	var out []Violation
	for _, field := range c.schema.Fields() {
		switch field.Type {
		case fieldschema.TypeText:
			out = append(out, c.checkText(field, snap.Text(field.Name))...)
		case fieldschema.TypeInteger:
			if v, ok := snap.Integer(field.Name); ok {
				out = append(out, checkRange(field, v)...)
			}
		case fieldschema.TypeIntegerList:
			for _, v := range snap.IntegerList(field.Name) {
				out = append(out, checkRange(field, v)...)
			}
		}
	}
	return out
}

func (c *Checker) checkText(field fieldschema.Field, value string) []Violation {
	if value == "" {
		return nil
	}
	var out []Violation
	length := utf8.RuneCountInString(value)
	if field.MinLength > 0 && length < field.MinLength {
		out = append(out, Violation{
			Field:   field.Name,
			Rule:    RuleMinLength,
			Message: fmt.Sprintf("%s must be at least %d characters", field.DisplayLabel(), field.MinLength),
		})
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		out = append(out, Violation{
			Field:   field.Name,
			Rule:    RuleMaxLength,
			Message: fmt.Sprintf("%s must be at most %d characters", field.DisplayLabel(), field.MaxLength),
		})
	}
	if re, ok := c.schema.Pattern(field.Name); ok && !re.MatchString(value) {
		out = append(out, Violation{
			Field:   field.Name,
			Rule:    RulePattern,
			Message: fmt.Sprintf("%s does not match the requested format", field.DisplayLabel()),
		})
	}
	return out
}

func checkRange(field fieldschema.Field, value int) []Violation {
	var out []Violation
	if field.Min != nil && value < *field.Min {
		out = append(out, Violation{
			Field:   field.Name,
			Rule:    RuleMin,
			Message: fmt.Sprintf("%s must be at least %d", field.DisplayLabel(), *field.Min),
		})
	}
	if field.Max != nil && value > *field.Max {
		out = append(out, Violation{
			Field:   field.Name,
			Rule:    RuleMax,
			Message: fmt.Sprintf("%s must be at most %d", field.DisplayLabel(), *field.Max),
		})
	}
	return out
}
