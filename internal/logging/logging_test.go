package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = New(Config{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New(Config{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "unsupported log format")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finplan.log")
	l, err := New(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("hello", zap.String("component", "test"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestCalculationLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := NewCalculationLogger(zap.New(core))

	cl.Debugf("emi=%s", "10623.51")
	cl.Infof("plan %q done", "household")
	cl.Warnf("w")
	cl.Errorf("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "emi=10623.51", entries[0].Message)
	assert.Equal(t, "engine", entries[0].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)

	assert.NotPanics(t, func() { NewCalculationLogger(nil).Infof("discarded") })
}
