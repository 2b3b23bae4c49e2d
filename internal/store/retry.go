package store

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryOptions bounds how long a single store call may take in total.
type RetryOptions struct {
	MaxRetries uint64        // retries after the first attempt
	BaseDelay  time.Duration // first backoff, doubled on each retry
	OpTimeout  time.Duration // deadline per attempt
}

// Retrying decorates a remote store with per-attempt timeouts and exponential backoff.
type Retrying struct {
	next Store
	opts RetryOptions
}

var _ Store = (*Retrying)(nil)

func NewRetrying(next Store, opts RetryOptions) *Retrying {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 50 * time.Millisecond
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 2 * time.Second
	}
	return &Retrying{next: next, opts: opts}
}

func (r *Retrying) do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(r.opts.MaxRetries, retry.NewExponential(r.opts.BaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, r.opts.OpTimeout)
		defer cancel()

		err := fn(attemptCtx)
		if err == nil || errors.Is(err, ErrEmptyKey) {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (r *Retrying) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		value, found, err = r.next.Get(ctx, key)
		return err
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

func (r *Retrying) Set(ctx context.Context, key, value string) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.next.Set(ctx, key, value)
	})
}

func (r *Retrying) Delete(ctx context.Context, key string) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.next.Delete(ctx, key)
	})
}
