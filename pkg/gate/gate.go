package gate

import (
	"context"
	"strings"

	"github.com/goliatone/go-formstate/pkg/constraints"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Reason explains why a form is not submittable.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonDisabled           Reason = "disabled"
	ReasonOptionsUnavailable Reason = "options-unavailable"
	ReasonOptionsIncomplete  Reason = "options-incomplete"
	ReasonUnknownOption      Reason = "unknown-option"
	ReasonRequiredMissing    Reason = "required-missing"
	ReasonConstraintsFailed  Reason = "constraints-failed"
)

// Verdict is the derived readiness of a form. It is recomputed on demand and
// never stored.
type Verdict struct {
	Submittable bool                    `json:"submittable"`
	Reason      Reason                  `json:"reason,omitempty"`
	Fields      []string                `json:"fields,omitempty"`
	Collections []string                `json:"collections,omitempty"`
	Violations  []constraints.Violation `json:"violations,omitempty"`
}

// Reporter delegates native constraint validation to a live control tree.
// Renderers that own real controls implement it.
type Reporter interface {
	ReportValidity(ctx context.Context, snap state.Snapshot) []constraints.Violation
}

// CollectionView is the read side of an option set.
type CollectionView interface {
	Get(name string) (options.Collection, bool)
}

// Gate derives submittability from option completeness, required values and
// constraint validity, checked in that order.
type Gate struct {
	schema  *fieldschema.Schema
	checker *constraints.Checker
}

// New constructs a gate. checker may be nil to skip schema constraints.
func New(schema *fieldschema.Schema, checker *constraints.Checker) *Gate {
	return &Gate{schema: schema, checker: checker}
}

// Evaluate computes the verdict for snap. Option collections are checked
// first: a required radio group rendered from an empty collection cannot be
// chosen at all, so nothing else is meaningful until the data arrives.
func (g *Gate) Evaluate(ctx context.Context, snap state.Snapshot, collections CollectionView, reporters ...Reporter) Verdict {
	if missing := g.collectionsWith(collections, func(c options.Collection) bool {
		return c.Status == options.StatusUnavailable
	}); len(missing) > 0 {
		return Verdict{Reason: ReasonOptionsUnavailable, Collections: missing}
	}
	if missing := g.collectionsWith(collections, func(c options.Collection) bool {
		return !c.Ready()
	}); len(missing) > 0 {
		return Verdict{Reason: ReasonOptionsIncomplete, Collections: missing}
	}
	if fields := g.unknownOptions(snap, collections); len(fields) > 0 {
		return Verdict{Reason: ReasonUnknownOption, Fields: fields}
	}

	if fields := g.missingRequired(snap); len(fields) > 0 {
		return Verdict{Reason: ReasonRequiredMissing, Fields: fields}
	}

	var violations []constraints.Violation
	if g.checker != nil {
		violations = append(violations, g.checker.Check(snap)...)
	}
	for _, reporter := range reporters {
		if reporter == nil {
			continue
		}
		violations = append(violations, reporter.ReportValidity(ctx, snap)...)
	}
	if len(violations) > 0 {
		return Verdict{
			Reason:     ReasonConstraintsFailed,
			Fields:     violationFields(violations),
			Violations: violations,
		}
	}

	return Verdict{Submittable: true}
}

// IsSubmittable is the boolean form of Evaluate.
func (g *Gate) IsSubmittable(ctx context.Context, snap state.Snapshot, collections CollectionView, reporters ...Reporter) bool {
	return g.Evaluate(ctx, snap, collections, reporters...).Submittable
}

func (g *Gate) collectionsWith(collections CollectionView, match func(options.Collection) bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, field := range g.schema.Fields() {
		if !field.GatesOnOptions() {
			continue
		}
		if _, ok := seen[field.Options]; ok {
			continue
		}
		seen[field.Options] = struct{}{}

		var coll options.Collection
		if collections != nil {
			coll, _ = collections.Get(field.Options)
		}
		if match(coll) {
			out = append(out, field.Options)
		}
	}
	return out
}

// unknownOptions lists fields holding ids that their Ready collection does
// not contain.
func (g *Gate) unknownOptions(snap state.Snapshot, collections CollectionView) []string {
	if collections == nil {
		return nil
	}
	var out []string
	for _, field := range g.schema.Fields() {
		if field.Options == "" {
			continue
		}
		coll, ok := collections.Get(field.Options)
		if !ok || coll.Status != options.StatusReady {
			continue
		}
		var ids []int
		switch field.Type {
		case fieldschema.TypeInteger:
			if id, set := snap.Integer(field.Name); set {
				ids = []int{id}
			}
		case fieldschema.TypeIntegerList:
			ids = snap.IntegerList(field.Name)
		}
		for _, id := range ids {
			if !coll.Contains(id) {
				out = append(out, field.Name)
				break
			}
		}
	}
	return out
}

func (g *Gate) missingRequired(snap state.Snapshot) []string {
	var out []string
	for _, field := range g.schema.Fields() {
		if !field.Required {
			continue
		}
		if isSentinel(field, snap) {
			out = append(out, field.Name)
		}
	}
	return out
}

// isSentinel reports whether the field still holds its "nothing chosen"
// value. A required checkbox must be checked, as in HTML.
func isSentinel(field fieldschema.Field, snap state.Snapshot) bool {
	switch field.Type {
	case fieldschema.TypeText:
		return snap.Text(field.Name) == ""
	case fieldschema.TypeInteger:
		_, ok := snap.Integer(field.Name)
		return !ok
	case fieldschema.TypeBoolean:
		return !snap.Bool(field.Name)
	case fieldschema.TypeIntegerList:
		return len(snap.IntegerList(field.Name)) == 0
	default:
		return true
	}
}

func violationFields(violations []constraints.Violation) []string {
	var out []string
	seen := make(map[string]struct{}, len(violations))
	for _, v := range violations {
		if _, ok := seen[v.Field]; ok {
			continue
		}
		seen[v.Field] = struct{}{}
		out = append(out, v.Field)
	}
	return out
}

// Message renders the verdict as a short diagnostic.
func (v Verdict) Message() string {
	switch v.Reason {
	case ReasonNone:
		return ""
	case ReasonDisabled:
		return "form is disabled"
	case ReasonOptionsUnavailable:
		return "options could not be loaded: " + strings.Join(v.Collections, ", ")
	case ReasonOptionsIncomplete:
		return "waiting for options: " + strings.Join(v.Collections, ", ")
	case ReasonUnknownOption:
		return "selected options are not available: " + strings.Join(v.Fields, ", ")
	case ReasonRequiredMissing:
		return "required fields are empty: " + strings.Join(v.Fields, ", ")
	case ReasonConstraintsFailed:
		msgs := make([]string, 0, len(v.Violations))
		for _, violation := range v.Violations {
			msgs = append(msgs, violation.Message)
		}
		return strings.Join(msgs, "; ")
	default:
		return string(v.Reason)
	}
}
