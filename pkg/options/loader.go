package options

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrNoSupplier marks a collection that has nothing to load it.
var ErrNoSupplier = errors.New("options: no supplier registered")

// Supplier resolves the contents of one named collection. Load is invoked at
// most once per collection.
type Supplier interface {
	Load(ctx context.Context, collection string) ([]Option, error)
}

// SupplierFunc adapts a function into a Supplier.
type SupplierFunc func(ctx context.Context, collection string) ([]Option, error)

// Load delegates to the underlying function.
func (fn SupplierFunc) Load(ctx context.Context, collection string) ([]Option, error) {
	return fn(ctx, collection)
}

// Sink receives the outcome of each supplier exactly once. ctx is the
// context given to Start, not the per-supplier timeout context.
type Sink interface {
	Resolved(ctx context.Context, collection string, opts []Option)
	Failed(ctx context.Context, collection string, err error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout bounds how long a supplier may take. Zero waits for as long as
// the Start context lives.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d >= 0 {
			l.timeout = d
		}
	}
}

// WithLoaderLogger sets the logger used for supplier outcomes.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader fans out one goroutine per registered supplier. Suppliers touch
// disjoint collections so no coordination happens between them.
type Loader struct {
	mu        sync.Mutex
	order     []string
	suppliers map[string]Supplier
	timeout   time.Duration
	logger    *slog.Logger
	started   bool
}

// NewLoader constructs an empty loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		suppliers: make(map[string]Supplier),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Register binds a supplier to a collection. Later registrations replace
// earlier ones until Start runs.
func (l *Loader) Register(collection string, s Supplier) error {
	if collection == "" || s == nil {
		return errors.New("options: collection name and supplier are required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return errors.New("options: loader already started")
	}
	if _, ok := l.suppliers[collection]; !ok {
		l.order = append(l.order, collection)
	}
	l.suppliers[collection] = s
	return nil
}

// Collections lists the collections with a registered supplier.
func (l *Loader) Collections() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// Start invokes every supplier once. The returned channel closes after the
// sink has been told about every collection. Start never blocks on a
// supplier; cancelling ctx settles pending collections as failed.
func (l *Loader) Start(ctx context.Context, sink Sink) (<-chan struct{}, error) {
	if sink == nil {
		return nil, errors.New("options: sink is required")
	}
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return nil, errors.New("options: loader already started")
	}
	l.started = true
	order := append([]string(nil), l.order...)
	suppliers := make(map[string]Supplier, len(l.suppliers))
	for name, s := range l.suppliers {
		suppliers[name] = s
	}
	l.mu.Unlock()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, name := range order {
		wg.Add(1)
		go func(name string, s Supplier) {
			defer wg.Done()
			l.run(ctx, name, s, sink)
		}(name, suppliers[name])
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done, nil
}

type loadResult struct {
	opts []Option
	err  error
}

func (l *Loader) run(ctx context.Context, name string, s Supplier, sink Sink) {
	lctx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	results := make(chan loadResult, 1)
	go func() {
		opts, err := s.Load(lctx, name)
		results <- loadResult{opts: opts, err: err}
	}()

	// A supplier that ignores its context is abandoned; its late result is
	// dropped so the collection is still written only once.
	select {
	case res := <-results:
		if res.err != nil {
			l.logger.Warn("options.resolve.fail",
				slog.String("collection", name),
				slog.String("err", res.err.Error()),
				slog.Duration("dur", time.Since(start)))
			sink.Failed(ctx, name, res.err)
			return
		}
		l.logger.Debug("options.resolve.ok",
			slog.String("collection", name),
			slog.Int("count", len(res.opts)),
			slog.Duration("dur", time.Since(start)))
		sink.Resolved(ctx, name, res.opts)
	case <-lctx.Done():
		err := fmt.Errorf("options: collection %q: %w", name, lctx.Err())
		l.logger.Warn("options.resolve.timeout",
			slog.String("collection", name),
			slog.String("err", err.Error()))
		sink.Failed(ctx, name, err)
	}
}
