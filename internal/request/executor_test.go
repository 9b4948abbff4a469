package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "package-metadata-fetcher/internal/errors"
)

// countingTimer records every pause the executor asks for and fires immediately.
type countingTimer struct {
	pauses []time.Duration
}

func (t *countingTimer) After(d time.Duration) <-chan time.Time {
	t.pauses = append(t.pauses, d)
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newTestExecutor() (*Executor, *countingTimer) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	timer := &countingTimer{}
	e := NewExecutor(Options{MaxAttempts: DefaultMaxAttempts, RetryDelay: DefaultRetryDelay}, logger).WithTimer(timer)
	return e, timer
}

func connRefused() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
}

// sequence returns an operation that fails with errs in order, then succeeds with value.
func sequence(value string, errs ...error) (Operation[string], *int) {
	calls := 0
	return func(ctx context.Context) (Result[string], error) {
		calls++
		if calls <= len(errs) {
			return Result[string]{}, errs[calls-1]
		}
		return Value(value), nil
	}, &calls
}

func TestDo_StructuredResponses(t *testing.T) {
	ctx := context.Background()

	t.Run("200 is returned unchanged on the first attempt", func(t *testing.T) {
		e, timer := newTestExecutor()
		calls := 0
		body := []byte(`{"rows": []}`)
		got, ok := Do(ctx, e, Call{Name: "get", Args: []any{"http://example.com"}}, func(ctx context.Context) (Result[[]byte], error) {
			calls++
			return Response(http.StatusOK, body), nil
		})

		require.True(t, ok)
		assert.Equal(t, body, got)
		assert.Equal(t, 1, calls)
		assert.Empty(t, timer.pauses)
	})

	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden, http.StatusNoContent} {
		t.Run(fmt.Sprintf("%d yields no result without retrying", code), func(t *testing.T) {
			e, timer := newTestExecutor()
			calls := 0
			got, ok := Do(ctx, e, Call{Name: "get"}, func(ctx context.Context) (Result[[]byte], error) {
				calls++
				return Response(code, []byte("nope")), nil
			})

			assert.False(t, ok)
			assert.Nil(t, got)
			assert.Equal(t, 1, calls)
			assert.Empty(t, timer.pauses)
		})
	}
}

func TestDo_PermanentErrors(t *testing.T) {
	ctx := context.Background()
	for name, err := range map[string]error{
		"not found":    custom_errors.ErrNotFound,
		"server error": fmt.Errorf("%w: status 502", custom_errors.ErrServer),
		"status error": &custom_errors.StatusError{Code: http.StatusUnauthorized},
		"other error":  errors.New("invalid character '<' looking for beginning of value"),
	} {
		t.Run(name, func(t *testing.T) {
			e, timer := newTestExecutor()
			op, calls := sequence("ok", err)

			_, ok := Do(ctx, e, Call{Name: "op"}, op)

			assert.False(t, ok)
			assert.Equal(t, 1, *calls)
			assert.Empty(t, timer.pauses)
		})
	}
}

func TestDo_TransientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on the fifth attempt after four pauses", func(t *testing.T) {
		e, timer := newTestExecutor()
		op, calls := sequence("done", connRefused(), connRefused(), io.ErrUnexpectedEOF, connRefused())

		got, ok := Do(ctx, e, Call{Name: "op"}, op)

		require.True(t, ok)
		assert.Equal(t, "done", got)
		assert.Equal(t, 5, *calls)
		assert.Len(t, timer.pauses, 4)
		for _, d := range timer.pauses {
			assert.Equal(t, DefaultRetryDelay, d)
		}
	})

	t.Run("gives up after five failed attempts", func(t *testing.T) {
		e, timer := newTestExecutor()
		op, calls := sequence("never", connRefused(), connRefused(), connRefused(), connRefused(), connRefused(), connRefused())

		got, ok := Do(ctx, e, Call{Name: "op"}, op)

		assert.False(t, ok)
		assert.Equal(t, "", got)
		assert.Equal(t, 5, *calls)
		assert.Len(t, timer.pauses, 4)
	})

	t.Run("stops retrying once the context is cancelled", func(t *testing.T) {
		e, timer := newTestExecutor()
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		op := func(ctx context.Context) (Result[string], error) {
			calls++
			cancel()
			return Result[string]{}, connRefused()
		}

		_, ok := Do(cctx, e, Call{Name: "op"}, op)

		assert.False(t, ok)
		assert.Equal(t, 1, calls)
		assert.Empty(t, timer.pauses)
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(connRefused()))
	assert.True(t, isTransient(fmt.Errorf("read body: %w", io.ErrUnexpectedEOF)))
	assert.True(t, isTransient(syscall.ECONNRESET))
	assert.False(t, isTransient(custom_errors.ErrNotFound))
	assert.False(t, isTransient(context.Canceled))
	assert.False(t, isTransient(errors.New("boom")))
}

func TestResult(t *testing.T) {
	r := Response(http.StatusOK, "body")
	assert.True(t, r.Structured())
	assert.Equal(t, http.StatusOK, r.StatusCode())
	assert.Equal(t, "body", r.Get())

	v := Value(42)
	assert.False(t, v.Structured())
	assert.Equal(t, 0, v.StatusCode())
	assert.True(t, v.ok())
}

func TestWrap(t *testing.T) {
	e, _ := newTestExecutor()

	got, ok := Do(context.Background(), e, Call{Name: "wrapped"}, Wrap(func(ctx context.Context) (int, error) {
		return 7, nil
	}))
	require.True(t, ok)
	assert.Equal(t, 7, got)

	_, ok = Do(context.Background(), e, Call{Name: "wrapped"}, Wrap(func(ctx context.Context) (int, error) {
		return 0, custom_errors.ErrNotFound
	}))
	assert.False(t, ok)
}
