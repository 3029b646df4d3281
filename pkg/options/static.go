package options

import (
	"context"
	"time"
)

// Static resolves immediately with a copy of opts.
func Static(opts ...Option) Supplier {
	items := append([]Option{}, opts...)
	return SupplierFunc(func(ctx context.Context, _ string) ([]Option, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return append([]Option{}, items...), nil
	})
}

// Delayed resolves with opts after d, simulating a slow backend.
func Delayed(d time.Duration, opts ...Option) Supplier {
	items := append([]Option{}, opts...)
	return SupplierFunc(func(ctx context.Context, _ string) ([]Option, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return append([]Option{}, items...), nil
		}
	})
}

// Never blocks until ctx ends. It models a backend that never answers.
func Never() Supplier {
	return SupplierFunc(func(ctx context.Context, _ string) ([]Option, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
}
