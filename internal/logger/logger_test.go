package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDAttachedFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("prod", &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	log.With("component", "test").InfoContext(ctx, "hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "hello", line["msg"])
}

func TestNoRequestIDWithoutContextValue(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("prod", &buf).Info("plain")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "request_id")
}

func TestDevLoggerIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("dev", &buf).Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Empty(t, RequestID(context.Background()))
}
