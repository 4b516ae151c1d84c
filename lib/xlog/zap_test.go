package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benz9527/xtree/lib/infra"
)

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		level    string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" WARN ", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"trace", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, getLogLevelOrDefault(tc.level), tc.level)
	}
}

func TestXLogger_EnvLevel(t *testing.T) {
	t.Setenv(envLogLevel, "warn")
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriteSyncer(zapcore.AddSync(buf)))
	require.Equal(t, "warn", logger.Level())

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())
	require.False(t, strings.Contains(buf.String(), "dropped"))
	require.True(t, strings.Contains(buf.String(), "kept"))
}

func TestXLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelDebug),
	).Named("xtree")

	logger.Debug("rotate", zap.Int("key", 44))
	require.NoError(t, logger.Sync())

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "rotate", entry["msg"])
	require.Equal(t, "DEBUG", entry["lvl"])
	require.Equal(t, "xtree", entry["component"])
	require.Equal(t, float64(44), entry["key"])
	require.True(t, strings.HasPrefix(entry["callAt"].(string), "xlog/zap_test.go"))

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	logger.Warn("dropped")
	require.NoError(t, logger.Sync())
	require.Zero(t, buf.Len())
}

func TestXLogger_PlainText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
	)
	logger.Info("plain text")
	require.NoError(t, logger.Sync())
	require.True(t, strings.Contains(buf.String(), "plain text"))
}

func TestXLogger_InvalidOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})
}

func TestXLogger_ErrorAndErrorStack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewXLoggerFromZap(zap.New(core))
	require.Equal(t, "debug", logger.Level())

	errPlain := errors.New("[xlog] plain")
	logger.Error(errPlain, "error")
	logger.ErrorStack(errPlain, "error stack without frames")
	logger.ErrorStack(infra.WrapErrorStackWithMessage(errPlain, "[xlog] wrapped"), "error stack")

	entries := logs.TakeAll()
	require.Len(t, entries, 3)
	require.Equal(t, "[xlog] plain", entries[0].ContextMap()["error"])
	require.Equal(t, "[xlog] plain", entries[1].ContextMap()["error"])
	ctx := entries[2].ContextMap()
	require.Equal(t, "[xlog] wrapped: [xlog] plain", ctx["error"])
	require.NotEmpty(t, ctx["errorStack"])
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	logger.Debug("nothing")
	logger.Error(nil, "nothing")
	logger.ErrorStack(nil, "nothing")
	require.NotNil(t, logger.Named("child"))
	require.NotNil(t, NewXLoggerFromZap(nil))
}
