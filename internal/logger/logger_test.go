package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"DEBUG":   logrus.DebugLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"trace":   logrus.TraceLevel,
		"":        logrus.InfoLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestFileOutputWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tradelab.log")
	log := New(Config{Level: "debug", Format: "json", Output: path, MaxSize: 1})
	assert.Equal(t, logrus.DebugLevel, log.Level())

	log.WithComponent("journal").WithField("count", 3).Info("loaded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"journal"`)
	assert.Contains(t, string(data), `"msg":"loaded"`)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := Discard()
	log.Info("nothing")
	log.WithTradeID("T1").Warn("still nothing")
}
