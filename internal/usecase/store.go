package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
)

// StoreTimeout bounds a single store call issued by a use case.
type StoreTimeout time.Duration

// withStore runs fn under the store deadline. A missed deadline is reported
// as ErrUnavailable so callers may retry.
func withStore[T any](ctx context.Context, timeout StoreTimeout, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout))
		defer cancel()
	}
	v, err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domainErrors.ErrUnavailable) {
		return v, fmt.Errorf("%w: %w", domainErrors.ErrUnavailable, err)
	}
	return v, err
}

func execStore(ctx context.Context, timeout StoreTimeout, fn func(context.Context) error) error {
	_, err := withStore(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
