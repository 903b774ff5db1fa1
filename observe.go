package jsoncodec

import "github.com/unkn0wn-root/jsoncodec/internal/util"

// ObserveOptions configures Observe. Zero values fall back to no-ops.
type ObserveOptions struct {
	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

// Observe returns a decoder with exactly the results of d that also reports
// every rejection under name. It is the place to attach diagnostics, since
// decoders themselves carry none.
func Observe[A any](name string, d Decoder[A], opts ObserveOptions) Decoder[A] {
	log := util.Coalesce[Logger](opts.Logger, NopLogger{})
	hooks := util.Coalesce[Hooks](opts.Hooks, NopHooks{})
	return DecoderFunc[A](func(v Value) (A, bool) {
		a, ok := d.Decode(v)
		if !ok {
			kind := orNull(v).Kind()
			hooks.DecodeRejected(name, kind)
			log.Debug("decode rejected", Fields{"codec": name, "got": kind.String()})
		}
		return a, ok
	})
}
