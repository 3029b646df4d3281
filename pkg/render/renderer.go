package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/constraints"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/gate"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Frame is everything a renderer needs to draw the form. It is built from
// copies, so renderers may keep it without observing later mutations, and
// they must not try to write back through it.
type Frame struct {
	Schema      *fieldschema.Schema
	State       state.Snapshot
	Collections map[string]options.Collection
	Widgets     map[string]string
	Disabled    bool
	Verdict     gate.Verdict
	// Errors holds the latest coercion diagnostic per field.
	Errors map[string]string
}

// Submittable reports whether the Save control should be enabled.
func (f Frame) Submittable() bool {
	return !f.Disabled && f.Verdict.Submittable
}

// Collection returns the option collection backing field, if any.
func (f Frame) Collection(field fieldschema.Field) (options.Collection, bool) {
	if field.Options == "" {
		return options.Collection{}, false
	}
	c, ok := f.Collections[field.Options]
	return c, ok
}

// Renderer draws a frame. Render is called after every committed mutation,
// in mutation order, and must treat the frame as read-only.
type Renderer interface {
	Name() string
	Render(ctx context.Context, frame Frame) error
}

// ControlTree is implemented by renderers whose controls hold their own
// selection state. Grouped controls (radio groups, selects, multi-selects)
// keep showing a prior choice after a reset unless told to clear, so the
// controller calls ResetControls imperatively on reset. This is the one place
// where state does not flow purely from the store to the UI.
type ControlTree interface {
	ResetControls(ctx context.Context, fields []string) error
}

// ConstraintReporter is implemented by renderers that can run native
// constraint validation on their live controls.
type ConstraintReporter interface {
	ReportValidity(ctx context.Context, snap state.Snapshot) []constraints.Violation
}

// Ensure the reporter contract stays aligned with the gate.
var _ gate.Reporter = ConstraintReporter(nil)
