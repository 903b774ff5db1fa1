package jsoncodec

// Codec is an Encoder and Decoder for the same type. Instances built from
// the combinators in this package satisfy Decode(Encode(a)) == (a, true),
// with one representation change: nil slices decode as empty slices.
type Codec[A any] interface {
	Encoder[A]
	Decoder[A]
}

type pairCodec[A any] struct {
	Encoder[A]
	Decoder[A]
}

// NewCodec joins an encoder and a decoder into a Codec.
func NewCodec[A any](e Encoder[A], d Decoder[A]) Codec[A] {
	return pairCodec[A]{Encoder: e, Decoder: d}
}
