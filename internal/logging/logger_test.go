package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).With("component", "test")

	log.Warn(context.Background(), "mail failed", "to", "a@x.com")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "mail failed", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "a@x.com", rec["to"])
}

func TestSlogLogger_DevText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Info(context.Background(), "hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}
