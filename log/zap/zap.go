package zap

import (
	"sort"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/jsoncodec"
)

var _ jsoncodec.Logger = Logger{}

// Logger adapts a *zap.Logger. Fields are emitted in key order.
type Logger struct{ L *zap.Logger }

// New returns a Logger writing under the "jsoncodec" name.
func New(l *zap.Logger) Logger { return Logger{L: l.Named("jsoncodec")} }

func (z Logger) Debug(msg string, f jsoncodec.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f jsoncodec.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f jsoncodec.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f jsoncodec.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f jsoncodec.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
