package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/jsoncodec"
)

func TestLoggerFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Debug("decode rejected", jsoncodec.Fields{"codec": "age"})
	l.Error("store entry dropped", nil)

	require.Len(t, hook.AllEntries(), 2)
	first := hook.AllEntries()[0]
	assert.Equal(t, logrus.DebugLevel, first.Level)
	assert.Equal(t, "age", first.Data["codec"])
	assert.Equal(t, "jsoncodec", first.Data["component"])

	last := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Equal(t, "store entry dropped", last.Message)
}
