// Package retry retries an operation with linear or capped exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/bsv-blockchain/walletrecovery/ulogger"
)

type Options struct {
	RetryCount          int
	BackoffMultiplier   int
	BackoffDurationType time.Duration
	Message             string
	ExponentialBackoff  bool
	BackoffFactor       float64
	MaxBackoff          time.Duration
	RetryIf             func(error) bool
}

type Option func(*Options)

func WithRetryCount(count int) Option {
	return func(o *Options) {
		o.RetryCount = count
	}
}

func WithBackoffMultiplier(multiplier int) Option {
	return func(o *Options) {
		o.BackoffMultiplier = multiplier
	}
}

func WithBackoffDurationType(d time.Duration) Option {
	return func(o *Options) {
		o.BackoffDurationType = d
	}
}

func WithMessage(message string) Option {
	return func(o *Options) {
		o.Message = message
	}
}

func WithExponentialBackoff() Option {
	return func(o *Options) {
		o.ExponentialBackoff = true
	}
}

func WithBackoffFactor(factor float64) Option {
	return func(o *Options) {
		o.BackoffFactor = factor
	}
}

func WithMaxBackoff(d time.Duration) Option {
	return func(o *Options) {
		o.MaxBackoff = d
	}
}

// WithRetryIf limits retries to errors for which fn returns true, any other error is returned at once.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *Options) {
		o.RetryIf = fn
	}
}

func defaultOptions() *Options {
	return &Options{
		RetryCount:          3,
		BackoffMultiplier:   2,
		BackoffDurationType: time.Second,
		BackoffFactor:       2.0,
		MaxBackoff:          30 * time.Second,
	}
}

// Retry calls f until it succeeds, the attempts are used up or ctx is cancelled.
// The last error of f is returned when every attempt failed.
func Retry[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), opts ...Option) (T, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	var (
		result T
		err    error
	)

	backoff := options.BackoffDurationType

	for i := 0; i < options.RetryCount; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		if result, err = f(); err == nil {
			return result, nil
		}

		if options.RetryIf != nil && !options.RetryIf(err) {
			return result, err
		}

		if i == options.RetryCount-1 {
			break
		}

		if options.Message != "" {
			logger.Warnf("%s (attempt %d/%d): %v", options.Message, i+1, options.RetryCount, err)
		}

		if options.ExponentialBackoff {
			if sleepErr := sleepFunc(ctx, backoff); sleepErr != nil {
				return result, sleepErr
			}

			backoff = CappedExponentialBackoff(backoff, options.BackoffFactor, options.MaxBackoff)

			continue
		}

		if sleepErr := BackoffAndSleep(ctx, i, options.BackoffMultiplier, options.BackoffDurationType); sleepErr != nil {
			return result, sleepErr
		}
	}

	return result, err
}
