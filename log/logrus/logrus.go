package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/jsoncodec"
)

var _ jsoncodec.Logger = Logger{}

// Logger adapts a *logrus.Entry; every line carries component=jsoncodec.
type Logger struct{ E *logrus.Entry }

func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "jsoncodec")}
}

func (l Logger) Debug(msg string, f jsoncodec.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f jsoncodec.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f jsoncodec.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f jsoncodec.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f jsoncodec.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
