package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/goliatone/go-formstate/pkg/formctl"
	"github.com/goliatone/go-formstate/pkg/options"
)

// Suppliers builds one supplier per configured collection. Suppliers holding
// connections are returned in closers; the caller closes them once the
// controller is done.
func (c *Config) Suppliers(ctx context.Context) (map[string]options.Supplier, []io.Closer, error) {
	if c == nil {
		return nil, nil, errors.New("config: config is nil")
	}
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]options.Supplier, len(names))
	var closers []io.Closer
	for _, name := range names {
		src := c.Options[name]
		supplier, closer, err := src.supplier(ctx)
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("config: options %q: %w", name, err)
		}
		out[name] = supplier
		if closer != nil {
			closers = append(closers, closer)
		}
	}
	return out, closers, nil
}

func (s Source) supplier(ctx context.Context) (options.Supplier, io.Closer, error) {
	switch s.Kind {
	case SourceStatic:
		return options.Static(s.Items...), nil, nil
	case SourceDelayed:
		return options.Delayed(s.Delay, s.Items...), nil, nil
	case SourceFile:
		return options.File(s.Path), nil, nil
	case SourceHTTP:
		h := options.HTTP(s.URL)
		h.Headers = s.Headers
		return h, nil, nil
	case SourceRedis:
		var (
			r   *options.RedisSupplier
			err error
		)
		if s.Addr == "" && s.KeyPrefix == "" {
			r, err = options.NewRedisSupplierFromEnv(ctx)
		} else {
			r, err = options.NewRedisSupplier(ctx, options.RedisConfig{Addr: s.Addr, KeyPrefix: s.KeyPrefix})
		}
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	default:
		return nil, nil, fmt.Errorf("unknown kind %q", s.Kind)
	}
}

// ControllerOptions translates the configuration into controller options.
// The returned close function releases supplier connections.
func (c *Config) ControllerOptions(ctx context.Context) ([]formctl.Option, func() error, error) {
	suppliers, closers, err := c.Suppliers(ctx)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(suppliers))
	for name := range suppliers {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := []formctl.Option{
		formctl.WithDisabled(c.Disabled),
	}
	if c.OptionsTimeout > 0 {
		opts = append(opts, formctl.WithOptionsTimeout(c.OptionsTimeout))
	}
	for _, name := range names {
		opts = append(opts, formctl.WithSupplier(name, suppliers[name]))
	}
	return opts, func() error { return closeAll(closers) }, nil
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
