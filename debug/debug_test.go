package debug

import (
	"bytes"
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level logiface.Level) *bytes.Buffer {
	t.Helper()
	prev := current.Load()
	t.Cleanup(func() { current.Store(prev) })
	var buf bytes.Buffer
	SetLogger(New(&buf, level))
	return &buf
}

func TestDropError_WritesErrorField(t *testing.T) {
	buf := capture(t, logiface.LevelDebug)
	DropError("bind", errors.New("no such field"))
	out := buf.String()
	assert.Contains(t, out, `"err":"no such field"`)
	assert.Contains(t, out, `"tag":"bind"`)
}

func TestDropError_NilErrorLogsPrefix(t *testing.T) {
	buf := capture(t, logiface.LevelDebug)
	DropError("gc", nil)
	assert.Contains(t, buf.String(), `"msg":"gc"`)
}

func TestDropMessage_RespectsLevel(t *testing.T) {
	buf := capture(t, logiface.LevelWarning)
	DropMessage("select", "native")
	assert.Empty(t, buf.String())

	buf = capture(t, logiface.LevelInformational)
	DropMessage("select", "native")
	assert.Contains(t, buf.String(), `"msg":"native"`)
}

func TestSetLogger_NilDisables(t *testing.T) {
	prev := current.Load()
	t.Cleanup(func() { current.Store(prev) })
	SetLogger(nil)
	require.NotNil(t, Logger())
	DropError("x", errors.New("y"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]logiface.Level{
		"debug":   logiface.LevelDebug,
		"INFO":    logiface.LevelInformational,
		"err":     logiface.LevelError,
		"crit":    logiface.LevelCritical,
		"off":     logiface.LevelDisabled,
		"trace":   logiface.LevelTrace,
		"bogus":   logiface.LevelWarning,
		"":        logiface.LevelWarning,
		" alert ": logiface.LevelAlert,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}
