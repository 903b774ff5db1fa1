package zap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/jsoncodec"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("decode rejected", jsoncodec.Fields{"codec": "age", "got": "string"})
	l.Warn("payload did not parse", jsoncodec.Fields{"err": errors.New("boom")})
	l.Info("no fields", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "jsoncodec", entries[0].LoggerName)
	assert.Equal(t, map[string]any{"codec": "age", "got": "string"}, entries[0].ContextMap())
	assert.Equal(t, "boom", entries[1].ContextMap()["err"])
	assert.Empty(t, entries[2].Context)
}

func TestLoggerSatisfiesObserve(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := jsoncodec.Observe[int]("n", jsoncodec.Int, jsoncodec.ObserveOptions{Logger: New(zap.New(core))})
	_, ok := d.Decode(jsoncodec.Str("x"))
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("decode rejected").Len())
}
