package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("logs queries at debug level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT * FROM investments", 3
		}, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("logs errors", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, assert.AnError)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("suppresses record not found", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, gormlogger.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn)
		begin := time.Now().Add(-time.Second)
		gl.Trace(ctx, begin, func() (string, int64) {
			return "SELECT pg_sleep(1)", 0
		}, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Silent)
		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, nil)

		assert.Empty(t, logs.All())
	})

	t.Run("includes request id from context", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		reqCtx := context.WithValue(ctx, RequestIDKey, "req-9")
		gl.Trace(reqCtx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("other"))
}
