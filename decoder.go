package jsoncodec

// Decoder converts a Value into an A. The boolean result is false when the
// value does not have the shape the decoder expects; no other failure exists.
type Decoder[A any] interface {
	Decode(Value) (A, bool)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc[A any] func(Value) (A, bool)

func (f DecoderFunc[A]) Decode(v Value) (A, bool) { return f(v) }

// Pair holds the results of two zipped codecs. N-ary records nest pairs:
// Pair[A, Pair[B, C]].
type Pair[A, B any] struct {
	First  A
	Second B
}

func MakePair[A, B any](a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} }

// Map transforms the result of a successful decode. A failed decode stays failed.
func Map[A, B any](d Decoder[A], f func(A) B) Decoder[B] {
	return DecoderFunc[B](func(v Value) (B, bool) {
		a, ok := d.Decode(v)
		if !ok {
			var zero B
			return zero, false
		}
		return f(a), true
	})
}

// Zip runs both decoders on the same input and succeeds only if both do.
func Zip[A, B any](da Decoder[A], db Decoder[B]) Decoder[Pair[A, B]] {
	return DecoderFunc[Pair[A, B]](func(v Value) (Pair[A, B], bool) {
		a, ok := da.Decode(v)
		if !ok {
			return Pair[A, B]{}, false
		}
		b, ok := db.Decode(v)
		if !ok {
			return Pair[A, B]{}, false
		}
		return Pair[A, B]{First: a, Second: b}, true
	})
}
