package formctl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formstate/pkg/constraints"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/gate"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Controller owns one form's state, option collections and lifecycle. All
// mutation is serialised; renders run inside the critical section so they are
// observed in mutation order. Notifications are delivered after the lock is
// released.
type Controller struct {
	mu sync.Mutex

	schema      *fieldschema.Schema
	store       *state.Store
	collections *options.Set
	normalizer  *normalize.Normalizer
	gate        *gate.Gate
	loader      *options.Loader

	renderer  render.Renderer
	reporters []gate.Reporter
	listeners []Listener
	logger    *slog.Logger
	cfg       *config

	widgetByField map[string]string
	grouped       []string

	disabled    bool
	fieldErrors map[string]string

	started  bool
	loadDone <-chan struct{}

	outbox   []event
	draining bool
}

// New builds a controller for schema. Suppliers are not invoked until Start.
func New(schema *fieldschema.Schema, opts ...Option) (*Controller, error) {
	if schema == nil {
		return nil, errors.New("formctl: schema is required")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	store, err := state.NewStore(schema)
	if err != nil {
		return nil, fmt.Errorf("formctl: %w", err)
	}
	collections := options.NewSet(schema.Collections()...)
	normalizer, err := normalize.New(schema, store, collections)
	if err != nil {
		return nil, fmt.Errorf("formctl: %w", err)
	}

	checker := cfg.checker
	if !cfg.checkerSet {
		checker = constraints.New(schema)
	}

	registry := cfg.widgets
	if registry == nil {
		registry = widgets.NewRegistry()
	}

	loader := options.NewLoader(
		options.WithTimeout(cfg.optionsTimeout),
		options.WithLoaderLogger(cfg.logger),
	)
	for _, name := range cfg.supplierOrder {
		if err := loader.Register(name, cfg.suppliers[name]); err != nil {
			return nil, fmt.Errorf("formctl: supplier %q: %w", name, err)
		}
	}

	c := &Controller{
		schema:        schema,
		store:         store,
		collections:   collections,
		normalizer:    normalizer,
		gate:          gate.New(schema, checker),
		loader:        loader,
		renderer:      cfg.renderer,
		reporters:     append([]gate.Reporter(nil), cfg.reporters...),
		listeners:     append([]Listener(nil), cfg.listeners...),
		logger:        cfg.logger,
		cfg:           cfg,
		widgetByField: registry.ResolveAll(schema),
		grouped:       registry.GroupedFields(schema),
		disabled:      cfg.disabled,
		fieldErrors:   make(map[string]string),
	}
	if reporter, ok := cfg.renderer.(render.ConstraintReporter); ok {
		c.reporters = append(c.reporters, reporter)
	}
	return c, nil
}

// Start renders the initial frame and invokes every supplier once. It does
// not wait for suppliers; cancelling ctx abandons the pending ones.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true

	registered := make(map[string]struct{})
	for _, name := range c.loader.Collections() {
		registered[name] = struct{}{}
	}
	for _, name := range c.collections.Names() {
		if _, ok := registered[name]; ok {
			continue
		}
		_ = c.collections.Fail(name, options.ErrNoSupplier)
		c.logger.Warn("options.supplier.missing", slog.String("collection", name))
	}

	renderErr := c.renderLocked(ctx)
	done, err := c.loader.Start(ctx, loaderSink{c: c})
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("formctl: start loader: %w", err)
	}
	c.loadDone = done
	c.mu.Unlock()
	return renderErr
}

// Wait blocks until every supplier has settled or ctx ends.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.loadDone
	c.mu.Unlock()
	if done == nil {
		return ErrNotStarted
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InputChanged normalises raw and commits it to field. A *normalize.CoercionError
// leaves the field unchanged and is recorded for display; a schema violation
// is a programming error and is returned wrapped.
func (c *Controller) InputChanged(ctx context.Context, field string, raw normalize.RawControl) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return ErrDisabled
	}

	_, err := c.normalizer.Apply(field, raw)
	var coercionErr *normalize.CoercionError
	switch {
	case errors.As(err, &coercionErr):
		c.logger.DebugContext(ctx, "form.input.coerce.fail",
			slog.String("field", field),
			slog.String("err", coercionErr.Error()))
		if _, known := c.schema.Lookup(field); known {
			c.fieldErrors[field] = coercionErr.Message()
			if renderErr := c.renderLocked(ctx); renderErr != nil {
				return errors.Join(err, renderErr)
			}
		}
		return err
	case err != nil:
		c.logger.ErrorContext(ctx, "form.input.schema.violation",
			slog.String("field", field),
			slog.String("err", err.Error()))
		return fmt.Errorf("formctl: input %q: %w", field, err)
	}

	delete(c.fieldErrors, field)
	return c.renderLocked(ctx)
}

// Submit evaluates the validity gate. When the form is submittable it emits
// one saved notification carrying a snapshot and leaves state untouched;
// otherwise nothing changes and the verdict explains why.
func (c *Controller) Submit(ctx context.Context) (gate.Verdict, error) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return gate.Verdict{Reason: gate.ReasonDisabled}, nil
	}

	snap := c.store.Snapshot()
	verdict := c.evaluateLocked(ctx, snap)
	if !verdict.Submittable {
		c.mu.Unlock()
		c.logger.InfoContext(ctx, "form.submit.blocked",
			slog.String("reason", string(verdict.Reason)),
			slog.String("detail", verdict.Message()))
		return verdict, nil
	}

	submission := Submission{
		ID:    c.cfg.newID(),
		At:    c.cfg.now(),
		State: snap,
	}
	c.outbox = append(c.outbox, event{ctx: ctx, submission: &submission})
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "form.submit.ok", slog.String("id", submission.ID))
	c.drain()
	return verdict, nil
}

// Reset restores every field to its default and emits one cancelled
// notification. Grouped controls are cleared imperatively through the
// renderer's ControlTree before the re-render; see render.ControlTree.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.store.Initialize()
	c.fieldErrors = make(map[string]string)

	var errs []error
	if tree, ok := c.renderer.(render.ControlTree); ok && len(c.grouped) > 0 {
		if err := tree.ResetControls(ctx, append([]string(nil), c.grouped...)); err != nil {
			c.logger.WarnContext(ctx, "form.reset.controls.fail", slog.String("err", err.Error()))
			errs = append(errs, fmt.Errorf("formctl: reset controls: %w", err))
		}
	}
	if err := c.renderLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	c.outbox = append(c.outbox, event{ctx: ctx})
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "form.reset")
	c.drain()
	return errors.Join(errs...)
}

// SetDisabled toggles the disabled flag and re-renders. While disabled, input
// and submit intents are ignored.
func (c *Controller) SetDisabled(ctx context.Context, disabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled == disabled {
		return nil
	}
	c.disabled = disabled
	return c.renderLocked(ctx)
}

// Disabled reports the disabled flag.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() state.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

// Collections returns copies of every option collection.
func (c *Controller) Collections() map[string]options.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collections.View()
}

// Verdict evaluates the validity gate without submitting.
func (c *Controller) Verdict(ctx context.Context) gate.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return gate.Verdict{Reason: gate.ReasonDisabled}
	}
	return c.evaluateLocked(ctx, c.store.Snapshot())
}

// Frame builds the frame the renderer would receive now.
func (c *Controller) Frame(ctx context.Context) render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked(ctx)
}

// Schema returns the controller's schema.
func (c *Controller) Schema() *fieldschema.Schema {
	return c.schema
}

// Widget returns the widget resolved for field.
func (c *Controller) Widget(field string) string {
	return c.widgetByField[field]
}

func (c *Controller) evaluateLocked(ctx context.Context, snap state.Snapshot) gate.Verdict {
	return c.gate.Evaluate(ctx, snap, c.collections, c.reporters...)
}

func (c *Controller) frameLocked(ctx context.Context) render.Frame {
	snap := c.store.Snapshot()
	verdict := c.evaluateLocked(ctx, snap)
	if c.disabled {
		verdict = gate.Verdict{Reason: gate.ReasonDisabled}
	}
	widgetsCopy := make(map[string]string, len(c.widgetByField))
	for k, v := range c.widgetByField {
		widgetsCopy[k] = v
	}
	errs := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		errs[k] = v
	}
	return render.Frame{
		Schema:      c.schema,
		State:       snap,
		Collections: c.collections.View(),
		Widgets:     widgetsCopy,
		Disabled:    c.disabled,
		Verdict:     verdict,
		Errors:      errs,
	}
}

func (c *Controller) renderLocked(ctx context.Context) error {
	if c.renderer == nil {
		return nil
	}
	if err := c.renderer.Render(ctx, c.frameLocked(ctx)); err != nil {
		c.logger.WarnContext(ctx, "form.render.fail",
			slog.String("renderer", c.renderer.Name()),
			slog.String("err", err.Error()))
		return fmt.Errorf("formctl: render: %w", err)
	}
	return nil
}

// drain delivers queued notifications in order. Only one goroutine drains at
// a time; events queued by re-entrant calls from a listener are picked up by
// the active drainer. A panicking listener ends the drain but leaves the
// remaining events queued for the next one.
func (c *Controller) drain() {
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	defer func() {
		c.draining = false
		c.mu.Unlock()
	}()
	for len(c.outbox) > 0 {
		ev := c.outbox[0]
		c.outbox = c.outbox[1:]
		c.deliverUnlocked(ev, c.listeners)
	}
}

// deliverUnlocked releases the lock while listeners run and takes it back
// before returning, panics included.
func (c *Controller) deliverUnlocked(ev event, listeners []Listener) {
	c.mu.Unlock()
	defer c.mu.Lock()
	for _, l := range listeners {
		ev.deliver(l)
	}
}

// loaderSink applies supplier outcomes under the controller lock.
type loaderSink struct {
	c *Controller
}

func (s loaderSink) Resolved(ctx context.Context, collection string, opts []options.Option) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.collections.Resolve(collection, opts); err != nil {
		c.logger.WarnContext(ctx, "options.apply.fail", slog.String("collection", collection), slog.String("err", err.Error()))
		if errors.Is(err, options.ErrInvalidOption) {
			_ = c.collections.Fail(collection, err)
		} else {
			return
		}
	}
	_ = c.renderLocked(ctx)
}

func (s loaderSink) Failed(ctx context.Context, collection string, cause error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.collections.Fail(collection, cause); err != nil {
		c.logger.WarnContext(ctx, "options.apply.fail", slog.String("collection", collection), slog.String("err", err.Error()))
		return
	}
	_ = c.renderLocked(ctx)
}
