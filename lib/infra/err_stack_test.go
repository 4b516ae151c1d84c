package infra

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var errTestCause = errors.New("[infra] test cause")

func TestFrameFormat_Unknown(t *testing.T) {
	testcases := []struct {
		format string
		want   string
	}{
		{"%s", "unknownFile"},
		{"%n", "unknownFunc"},
		{"%d", "0"},
		{"%+v", "unknownFrame"},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.want, fmt.Sprintf(tc.format, Frame(0)))
	}
}

func TestNewErrorStack(t *testing.T) {
	err := NewErrorStack("[infra] broken")
	require.Equal(t, "[infra] broken", err.Error())

	var es ErrorStack
	require.True(t, errors.As(err, &es))
	require.NotEmpty(t, es.Frames())
	require.Equal(t, "TestNewErrorStack", fmt.Sprintf("%n", es.Frames()[0]))
	require.Equal(t, "err_stack_test.go", fmt.Sprintf("%s", es.Frames()[0]))
	require.Nil(t, es.Unwrap())
}

func TestWrapErrorStack(t *testing.T) {
	require.NoError(t, WrapErrorStack(nil))
	require.NoError(t, WrapErrorStackWithMessage(nil, "ignored"))

	err := WrapErrorStack(errTestCause)
	require.ErrorIs(t, err, errTestCause)
	require.Equal(t, errTestCause.Error(), err.Error())
	// Already carrying frames, not wrapped twice.
	require.Same(t, err, WrapErrorStack(err))

	err = WrapErrorStackWithMessage(errTestCause, "[infra] outer")
	require.ErrorIs(t, err, errTestCause)
	require.Equal(t, "[infra] outer: [infra] test cause", err.Error())
}

func TestErrorStack_MarshalLogObject(t *testing.T) {
	err := WrapErrorStackWithMessage(errTestCause, "[infra] outer")
	var es ErrorStack
	require.True(t, errors.As(err, &es))

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, es.MarshalLogObject(enc))
	require.Equal(t, "[infra] outer: [infra] test cause", enc.Fields["error"])
	frames, ok := enc.Fields["errorStack"].([]any)
	require.True(t, ok)
	require.Len(t, frames, len(es.Frames()))
	first, ok := frames[0].(string)
	require.True(t, ok)
	require.True(t, strings.Contains(first, "TestErrorStack_MarshalLogObject"))
}
