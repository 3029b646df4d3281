package formctl

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/constraints"
	"github.com/goliatone/go-formstate/pkg/gate"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Option configures a Controller.
type Option func(*config)

type config struct {
	renderer       render.Renderer
	suppliers      map[string]options.Supplier
	supplierOrder  []string
	listeners      []Listener
	logger         *slog.Logger
	optionsTimeout time.Duration
	disabled       bool
	checker        *constraints.Checker
	checkerSet     bool
	reporters      []gate.Reporter
	widgets        *widgets.Registry
	now            func() time.Time
	newID          func() string
}

func defaultConfig() *config {
	return &config{
		suppliers: make(map[string]options.Supplier),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithRenderer sets the renderer called after every committed mutation.
func WithRenderer(r render.Renderer) Option {
	return func(cfg *config) {
		cfg.renderer = r
	}
}

// WithSupplier binds the supplier that loads collection.
func WithSupplier(collection string, s options.Supplier) Option {
	return func(cfg *config) {
		if collection == "" || s == nil {
			return
		}
		if _, ok := cfg.suppliers[collection]; !ok {
			cfg.supplierOrder = append(cfg.supplierOrder, collection)
		}
		cfg.suppliers[collection] = s
	}
}

// WithListener registers a listener for saved and cancelled notifications.
func WithListener(l Listener) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.listeners = append(cfg.listeners, l)
		}
	}
}

// WithLogger sets the slog logger used by the controller. If not provided,
// logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithOptionsTimeout bounds each supplier. A supplier that misses the deadline
// leaves its collection unavailable.
func WithOptionsTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.optionsTimeout = d
	}
}

// WithDisabled starts the controller disabled.
func WithDisabled(disabled bool) Option {
	return func(cfg *config) {
		cfg.disabled = disabled
	}
}

// WithConstraintChecker replaces the schema constraint checker; nil disables
// schema constraints.
func WithConstraintChecker(c *constraints.Checker) Option {
	return func(cfg *config) {
		cfg.checker = c
		cfg.checkerSet = true
	}
}

// WithReporter adds an external constraint reporter consulted by the gate.
func WithReporter(r gate.Reporter) Option {
	return func(cfg *config) {
		if r != nil {
			cfg.reporters = append(cfg.reporters, r)
		}
	}
}

// WithWidgetRegistry overrides widget resolution.
func WithWidgetRegistry(reg *widgets.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.widgets = reg
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}
