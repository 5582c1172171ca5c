package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestNewLogger_Environments проверяет создание логгера для разных окружений
func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"dev", "staging", "prod"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env, "debug", "cli")
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.With(String("test", "value")).Info("message with field")
		})
	}
}

// TestNewLogger_UnknownLevel проверяет откат к уровню info
func TestNewLogger_UnknownLevel(t *testing.T) {
	l, err := NewLogger("prod", "verbose", "cli")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

// TestLogger_FieldsReachCore проверяет, что поля попадают в zap
func TestLogger_FieldsReachCore(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(core)).With(String("component", "store"))

	l.Info("action failed",
		String("action", "fetchJobs"),
		Int("page", 2),
		Bool("retry", true),
		Duration("took", 150*time.Millisecond),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "store", fields["component"])
	assert.Equal(t, "fetchJobs", fields["action"])
	assert.Equal(t, int64(2), fields["page"])
	assert.Equal(t, true, fields["retry"])
	assert.Equal(t, 150*time.Millisecond, fields["took"])
	assert.Equal(t, "boom", fields["error"])
}

// TestLogger_ErrorNil проверяет поле для пустой ошибки
func TestLogger_ErrorNil(t *testing.T) {
	assert.Equal(t, "nil", Error(nil).String)
}

// TestLogger_CtxField проверяет извлечение request_id из контекста
func TestLogger_CtxField(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", CtxField(ctx).String)
	assert.Equal(t, "unknown", CtxField(context.Background()).String)
}

// TestNewNop проверяет, что пустой логгер не падает
func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("ignored")
	assert.NoError(t, l.Sync())
}
