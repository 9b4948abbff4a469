package request

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"

	custom_errors "package-metadata-fetcher/internal/errors"
)

const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 30 * time.Second
)

// Options configures the retry policy of an Executor.
type Options struct {
	MaxAttempts uint
	RetryDelay  time.Duration
}

// Executor runs network operations with a bounded number of attempts and a fixed
// pause between them. Only transient network failures are retried.
type Executor struct {
	maxAttempts uint
	delay       time.Duration
	timer       retry.Timer
	logger      *slog.Logger
}

// NewExecutor creates an Executor. A zero MaxAttempts falls back to DefaultMaxAttempts.
func NewExecutor(opts Options, logger *slog.Logger) *Executor {
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Executor{
		maxAttempts: opts.MaxAttempts,
		delay:       opts.RetryDelay,
		logger:      logger,
	}
}

// WithTimer swaps the timer used for pauses between attempts.
func (e *Executor) WithTimer(t retry.Timer) *Executor {
	e.timer = t
	return e
}

// Do executes op and returns its value. The boolean is false when the call
// produced no result: a non-200 response, a permanent error, or a transient
// error that persisted through every attempt. Each failure is logged.
func Do[T any](ctx context.Context, e *Executor, call Call, op Operation[T]) (T, bool) {
	logger := e.logger.With("call", call.Name, "args", call.Args)
	var attempt uint

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(e.maxAttempts),
		retry.Delay(e.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && isTransient(err)
		}),
	}
	if e.timer != nil {
		opts = append(opts, retry.WithTimer(e.timer))
	}

	value, err := retry.DoWithData(func() (T, error) {
		attempt++
		res, err := op(ctx)
		if err == nil && !res.ok() {
			err = &custom_errors.StatusError{Code: res.StatusCode()}
		}
		if err != nil {
			logger.Warn("Request failed", "error", err, "attempt", attempt)
			if attempt < e.maxAttempts && ctx.Err() == nil && isTransient(err) {
				logger.Warn("Waiting before retrying", "delay", e.delay.String())
			}
			var zero T
			return zero, err
		}
		return res.Get(), nil
	}, opts...)
	if err != nil {
		if isTransient(err) {
			logger.Error("Giving up after repeated failures", "error", err, "attempts", attempt)
		}
		var zero T
		return zero, false
	}
	return value, true
}

// isTransient reports whether err is a network condition that may clear up on retry.
func isTransient(err error) bool {
	var statusErr *custom_errors.StatusError
	switch {
	case errors.Is(err, custom_errors.ErrNotFound),
		errors.Is(err, custom_errors.ErrServer),
		errors.As(err, &statusErr),
		errors.Is(err, context.Canceled):
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
