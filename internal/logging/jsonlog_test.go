package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugGatedByVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	SetVerbose(false)
	Debug("hidden", nil)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown", map[string]any{"page": 1})
	require.NotEmpty(t, buf.String())

	var e entry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &e))
	assert.Equal(t, "debug", e.Level)
	assert.Equal(t, "shown", e.Message)
	assert.EqualValues(t, 1, e.Fields["page"])
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Info("a", nil)
	Warn("b", nil)
	Error("c", nil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"level":"info"`)
	assert.Contains(t, lines[1], `"level":"warn"`)
	assert.Contains(t, lines[2], `"level":"error"`)
}
