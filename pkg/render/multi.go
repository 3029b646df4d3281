package render

import (
	"context"
	"errors"

	"github.com/goliatone/go-formstate/pkg/constraints"
	"github.com/goliatone/go-formstate/pkg/state"
)

// Multi fans one frame out to several renderers, in order. Capabilities
// (ControlTree, ConstraintReporter) are forwarded to every member that
// implements them.
type Multi []Renderer

// Name reports the renderer identifier.
func (m Multi) Name() string { return "multi" }

// Render draws frame with every member and joins their errors.
func (m Multi) Render(ctx context.Context, frame Frame) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Render(ctx, frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetControls implements ControlTree.
func (m Multi) ResetControls(ctx context.Context, fields []string) error {
	var errs []error
	for _, r := range m {
		if tree, ok := r.(ControlTree); ok {
			if err := tree.ResetControls(ctx, fields); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// ReportValidity implements ConstraintReporter.
func (m Multi) ReportValidity(ctx context.Context, snap state.Snapshot) []constraints.Violation {
	var out []constraints.Violation
	for _, r := range m {
		if reporter, ok := r.(ConstraintReporter); ok {
			out = append(out, reporter.ReportValidity(ctx, snap)...)
		}
	}
	return out
}
