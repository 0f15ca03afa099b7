package log

import (
	"bytes"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSetOutput(t *testing.T) {
	defer SetOutput(new(bytes.Buffer), DefaultVerbosity)

	buf := new(bytes.Buffer)
	SetOutput(buf, 2)
	logger := New("component", "test")
	logger.Info("hidden message")
	logger.Warn("visible message", "key", "value")

	require.NotContains(t, buf.String(), "hidden message")
	require.Contains(t, buf.String(), "visible message")
	require.Contains(t, buf.String(), "component=test")
	require.Contains(t, buf.String(), "key=value")
}
