package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "JSON")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("frame", 12).Info("canvas recolored")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "canvas recolored", entry["msg"])
	assert.Equal(t, float64(12), entry["frame"])
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "text")
	var buf bytes.Buffer
	log := New(&buf, "", "")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	t.Setenv(EnvLevel, "")
	log := New(&bytes.Buffer{}, "loud", "")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestInitConfiguresStandardLogger(t *testing.T) {
	std := logrus.StandardLogger()
	prevLevel, prevFormatter, prevOut := std.GetLevel(), std.Formatter, std.Out
	t.Cleanup(func() {
		std.SetLevel(prevLevel)
		std.SetFormatter(prevFormatter)
		std.SetOutput(prevOut)
	})

	got := Init("error", "json")
	assert.Same(t, std, got)
	assert.Equal(t, logrus.ErrorLevel, std.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, std.Formatter)
}
