package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// TestRetrier_ManualRetry проверяет ручной повтор до исчерпания попыток
func TestRetrier_ManualRetry(t *testing.T) {
	ctx := context.Background()
	r := New(3, nil)

	calls := 0
	netErr := pkgerrors.Network(errors.New("connection refused"))
	op := func(context.Context) error {
		calls++
		return netErr
	}

	require.Error(t, r.Do(ctx, op))
	assert.Equal(t, 1, calls, "Do не повторяет автоматически")
	assert.Equal(t, 1, r.Attempts())
	assert.True(t, r.CanRetry())

	require.Error(t, r.Retry(ctx))
	require.Error(t, r.Retry(ctx))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, r.Attempts())
	assert.False(t, r.CanRetry())

	assert.ErrorIs(t, r.Retry(ctx), ErrCannotRetry)
	assert.Equal(t, 3, calls)

	st := r.Status()
	assert.Equal(t, 3, st.Attempts)
	assert.Equal(t, 3, st.MaxAttempts)
	assert.False(t, st.CanRetry)
	assert.Equal(t, string(pkgerrors.ErrNetwork), st.Code)
}

// TestRetrier_SuccessAfterRetry проверяет сброс счетчика после успеха
func TestRetrier_SuccessAfterRetry(t *testing.T) {
	ctx := context.Background()
	r := New(0, nil)

	fail := true
	op := func(context.Context) error {
		if fail {
			return pkgerrors.FromResponse(503, "text/plain", []byte("Service Unavailable"), "Request failed")
		}
		return nil
	}

	require.Error(t, r.Do(ctx, op))
	assert.True(t, r.CanRetry())
	assert.Equal(t, "Service Unavailable", r.Status().Message)

	fail = false
	require.NoError(t, r.Retry(ctx))
	assert.Zero(t, r.Attempts())
	assert.NoError(t, r.Err())
	assert.False(t, r.CanRetry())
	assert.Equal(t, DefaultMaxAttempts, r.Status().MaxAttempts)
}

// TestRetrier_NotRetryable проверяет, что ошибки проверки не повторяются
func TestRetrier_NotRetryable(t *testing.T) {
	ctx := context.Background()
	r := New(3, nil)

	tests := []error{
		pkgerrors.New(pkgerrors.ErrValidation, "Title is required"),
		pkgerrors.FromResponse(403, "application/json", []byte(`{"detail":"Forbidden"}`), "Request failed"),
		errors.New("plain"),
	}
	for _, err := range tests {
		require.Error(t, r.Do(ctx, func(context.Context) error { return err }))
		assert.False(t, r.CanRetry(), err.Error())
		assert.ErrorIs(t, r.Retry(ctx), ErrCannotRetry)
	}
}

// TestRetrier_Reset проверяет сброс состояния
func TestRetrier_Reset(t *testing.T) {
	ctx := context.Background()
	r := New(2, nil)
	require.Error(t, r.Do(ctx, func(context.Context) error { return pkgerrors.Network(errors.New("timeout")) }))

	r.Reset()
	assert.Zero(t, r.Attempts())
	assert.NoError(t, r.Err())
	assert.ErrorIs(t, r.Retry(ctx), ErrCannotRetry)
	assert.Empty(t, r.Status().Message)
}

// TestRetrier_InProgress проверяет запрет параллельного запуска
func TestRetrier_InProgress(t *testing.T) {
	ctx := context.Background()
	r := New(2, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.True(t, r.Status().Running)
	assert.ErrorIs(t, r.Do(ctx, func(context.Context) error { return nil }), ErrInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, r.Status().Running)
}
