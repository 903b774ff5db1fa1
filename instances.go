package jsoncodec

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// Built-in codecs. Each is stateless and safe to share.
var (
	Unit    Codec[struct{}] = unitCodec{}
	String  Codec[string]   = stringCodec{}
	Boolean Codec[bool]     = boolCodec{}

	Int    = Integer[int]()
	Int8   = Integer[int8]()
	Int16  = Integer[int16]()
	Int32  = Integer[int32]()
	Int64  = Integer[int64]()
	Uint   = Integer[uint]()
	Uint8  = Integer[uint8]()
	Uint16 = Integer[uint16]()
	Uint32 = Integer[uint32]()
	Uint64 = Integer[uint64]()

	Decimal Codec[decimal.Decimal] = decimalCodec{}
)

// unit <-> null
type unitCodec struct{}

func (unitCodec) Encode(struct{}) Value { return Null{} }
func (unitCodec) Decode(v Value) (struct{}, bool) {
	_, ok := v.(Null)
	return struct{}{}, ok
}

type stringCodec struct{}

func (stringCodec) Encode(s string) Value { return Str(s) }
func (stringCodec) Decode(v Value) (string, bool) {
	s, ok := v.(Str)
	return string(s), ok
}

type boolCodec struct{}

func (boolCodec) Encode(b bool) Value { return Bool(b) }
func (boolCodec) Decode(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

type decimalCodec struct{}

func (decimalCodec) Encode(d decimal.Decimal) Value { return Num{d: d} }
func (decimalCodec) Decode(v Value) (decimal.Decimal, bool) {
	n, ok := v.(Num)
	return n.d, ok
}

// maxIntegerDigits covers every 64-bit value (MaxUint64 has 20 digits).
const maxIntegerDigits = 20

type integerCodec[T constraints.Integer] struct{}

// Integer returns the codec for the integer type T. Decoding accepts only
// numbers with no fractional part that fit in T.
func Integer[T constraints.Integer]() Codec[T] { return integerCodec[T]{} }

func (integerCodec[T]) Encode(t T) Value {
	if t < 0 {
		return NumFromInt64(int64(t))
	}
	return NumFromUint64(uint64(t))
}

func (integerCodec[T]) Decode(v Value) (T, bool) {
	var zero T
	n, ok := v.(Num)
	if !ok {
		return zero, false
	}
	b, ok := n.Integer(maxIntegerDigits)
	if !ok {
		return zero, false
	}
	return fitInteger[T](b)
}

func fitInteger[T constraints.Integer](b *big.Int) (T, bool) {
	var zero T
	switch {
	case b.IsInt64():
		i := b.Int64()
		t := T(i)
		if int64(t) != i || (i < 0) != (t < 0) {
			return zero, false
		}
		return t, true
	case b.IsUint64():
		u := b.Uint64()
		t := T(u)
		if uint64(t) != u || t < 0 {
			return zero, false
		}
		return t, true
	}
	return zero, false
}

// SliceEncoder encodes every element with e, preserving order.
func SliceEncoder[A any](e Encoder[A]) Encoder[[]A] {
	return EncoderFunc[[]A](func(as []A) Value {
		items := make([]Value, len(as))
		for i, a := range as {
			items[i] = orNull(e.Encode(a))
		}
		return Arr{items: items}
	})
}

// SliceDecoder succeeds on an array whose every element decodes with d.
// An empty array yields an empty, non-nil slice, so a nil slice comes back
// from a round trip as []A{}. One bad element fails the whole decode.
func SliceDecoder[A any](d Decoder[A]) Decoder[[]A] {
	return DecoderFunc[[]A](func(v Value) ([]A, bool) {
		arr, ok := v.(Arr)
		if !ok {
			return nil, false
		}
		out := make([]A, 0, len(arr.items))
		for _, item := range arr.items {
			a, ok := d.Decode(item)
			if !ok {
				return nil, false
			}
			out = append(out, a)
		}
		return out, true
	})
}

func SliceOf[A any](c Codec[A]) Codec[[]A] {
	return NewCodec(SliceEncoder[A](c), SliceDecoder[A](c))
}

// Nullable maps nil to null and any other pointer to the inner encoding.
// Decoding null yields nil.
func Nullable[A any](c Codec[A]) Codec[*A] {
	enc := EncoderFunc[*A](func(p *A) Value {
		if p == nil {
			return Null{}
		}
		return c.Encode(*p)
	})
	dec := DecoderFunc[*A](func(v Value) (*A, bool) {
		if _, ok := v.(Null); ok {
			return nil, true
		}
		a, ok := c.Decode(v)
		if !ok {
			return nil, false
		}
		return &a, true
	})
	return NewCodec[*A](enc, dec)
}

// MapOf encodes a string-keyed map as an object. Decoding requires every
// member to decode with c.
func MapOf[A any](c Codec[A]) Codec[map[string]A] {
	enc := ObjectEncoderFunc[map[string]A](func(m map[string]A) Obj {
		if len(m) == 0 {
			return Obj{}
		}
		fields := make(map[string]Value, len(m))
		for k, a := range m {
			fields[k] = orNull(c.Encode(a))
		}
		return Obj{fields: fields}
	})
	dec := DecoderFunc[map[string]A](func(v Value) (map[string]A, bool) {
		o, ok := v.(Obj)
		if !ok {
			return nil, false
		}
		out := make(map[string]A, len(o.fields))
		for k, fv := range o.fields {
			a, ok := c.Decode(fv)
			if !ok {
				return nil, false
			}
			out[k] = a
		}
		return out, true
	})
	return NewCodec[map[string]A](enc, dec)
}

// Identity passes values through unchanged; use it to read or write raw
// documents through the byte codecs.
var Identity Codec[Value] = identityCodec{}

type identityCodec struct{}

func (identityCodec) Encode(v Value) Value         { return orNull(v) }
func (identityCodec) Decode(v Value) (Value, bool) { return orNull(v), true }
