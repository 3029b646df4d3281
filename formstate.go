// Package formstate keeps an editable form's visible state in step with one
// canonical state object. It re-exports the pieces most callers need from the
// pkg/ tree.
package formstate

import (
	"context"
	"errors"

	"github.com/goliatone/go-formstate/pkg/config"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/formctl"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Field describes a single form field.
type Field = fieldschema.Field

// Schema is a validated, ordered set of fields.
type Schema = fieldschema.Schema

// Controller owns a form's lifecycle.
type Controller = formctl.Controller

// Option configures a Controller.
type Option = formctl.Option

// Submission is the payload of a saved notification.
type Submission = formctl.Submission

// Listener receives saved and cancelled notifications.
type Listener = formctl.Listener

// ListenerFuncs adapts callbacks into a Listener.
type ListenerFuncs = formctl.ListenerFuncs

// RawControl is the untyped value a control reported.
type RawControl = normalize.RawControl

// OptionItem is a single selectable choice in an option collection.
type OptionItem = options.Option

// Field types.
const (
	TypeText        = fieldschema.TypeText
	TypeInteger     = fieldschema.TypeInteger
	TypeBoolean     = fieldschema.TypeBoolean
	TypeIntegerList = fieldschema.TypeIntegerList
)

// Unset is the integer sentinel for "nothing chosen".
const Unset = fieldschema.Unset

// NewSchema validates fields into a Schema.
func NewSchema(fields ...Field) (*Schema, error) {
	return fieldschema.NewSchema(fields...)
}

// New constructs a controller for schema.
func New(schema *Schema, opts ...Option) (*Controller, error) {
	return formctl.New(schema, opts...)
}

// WithListener registers a listener for saved and cancelled notifications.
func WithListener(l Listener) Option {
	return formctl.WithListener(l)
}

// WithRenderer sets the renderer called after every committed mutation.
func WithRenderer(r render.Renderer) Option {
	return formctl.WithRenderer(r)
}

// NewFromConfig builds a controller from a loaded configuration. Options in
// opts are applied after the configured ones, so they win. The returned
// close function releases supplier connections.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Controller, func() error, error) {
	if cfg == nil {
		return nil, nil, errors.New("formstate: config is nil")
	}
	schema, err := cfg.Schema()
	if err != nil {
		return nil, nil, err
	}
	base, closeFn, err := cfg.ControllerOptions(ctx)
	if err != nil {
		return nil, nil, err
	}
	ctl, err := formctl.New(schema, append(base, opts...)...)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return ctl, closeFn, nil
}

// LoadConfigFile reads a configuration file and applies environment
// overrides.
func LoadConfigFile(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
