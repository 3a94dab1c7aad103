package debug_test

import (
	"bytes"
	"testing"

	"github.com/satishbabariya/moodtrack/internal/debug"
	"github.com/stretchr/testify/assert"
)

func TestSetOutput(t *testing.T) {
	t.Cleanup(debug.Discard)

	var buf bytes.Buffer
	debug.SetOutput(&buf, false)
	assert.False(t, debug.Enabled())

	debug.Debug("hidden")
	debug.Info("hidden too")
	debug.Warn("shown", "table", "users")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "table=users")

	buf.Reset()
	debug.SetOutput(&buf, true)
	assert.True(t, debug.Enabled())
	debug.Debug("compiled", "sql", "SELECT 1")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `sql="SELECT 1"`)
}

func TestWith(t *testing.T) {
	t.Cleanup(debug.Discard)

	var buf bytes.Buffer
	debug.SetOutput(&buf, true)
	debug.With("component", "pool").Info("opened")
	assert.Contains(t, buf.String(), "component=pool")
}

func TestDiscard(t *testing.T) {
	debug.Discard()
	assert.NotNil(t, debug.Logger())
	assert.NotPanics(t, func() { debug.Error("dropped") })
}
