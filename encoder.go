package jsoncodec

// Encoder converts an A into a Value. Encode must be total: it never fails
// or panics for any A the type system admits.
type Encoder[A any] interface {
	Encode(A) Value
}

// EncoderFunc adapts a plain function to Encoder.
type EncoderFunc[A any] func(A) Value

func (f EncoderFunc[A]) Encode(a A) Value { return f(a) }

// Contramap builds an Encoder for B by converting to A first.
//
//	Contramap(e, identity)          ≡ e
//	Contramap(Contramap(e, f), g)   ≡ Contramap(e, func(c C) A { return f(g(c)) })
func Contramap[A, B any](e Encoder[A], f func(B) A) Encoder[B] {
	return EncoderFunc[B](func(b B) Value { return e.Encode(f(b)) })
}
