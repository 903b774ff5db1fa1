package jsoncodec

// ObjectEncoder is an Encoder whose output is always an object.
// Encode returns the same Obj as EncodeObject, widened to Value.
type ObjectEncoder[A any] interface {
	Encoder[A]
	EncodeObject(A) Obj
}

// ObjectEncoderFunc adapts a plain function to ObjectEncoder.
type ObjectEncoderFunc[A any] func(A) Obj

func (f ObjectEncoderFunc[A]) Encode(a A) Value     { return f(a) }
func (f ObjectEncoderFunc[A]) EncodeObject(a A) Obj { return f(a) }

// ZipObject encodes a pair by encoding each half independently and taking
// the union of both field sets. When both sides emit the same field name
// the field from eb is kept; callers should zip disjoint field sets.
func ZipObject[A, B any](ea ObjectEncoder[A], eb ObjectEncoder[B]) ObjectEncoder[Pair[A, B]] {
	return ObjectEncoderFunc[Pair[A, B]](func(p Pair[A, B]) Obj {
		return ea.EncodeObject(p.First).Merge(eb.EncodeObject(p.Second))
	})
}

// ContramapObject is Contramap for object encoders; the result is still
// an ObjectEncoder, so it can be zipped further.
func ContramapObject[A, B any](e ObjectEncoder[A], f func(B) A) ObjectEncoder[B] {
	return ObjectEncoderFunc[B](func(b B) Obj { return e.EncodeObject(f(b)) })
}

// EncodeField wraps e as a single-field object: {name: e.Encode(a)}.
func EncodeField[A any](name string, e Encoder[A]) ObjectEncoder[A] {
	return ObjectEncoderFunc[A](func(a A) Obj {
		return Obj{fields: map[string]Value{name: orNull(e.Encode(a))}}
	})
}

// DecodeField succeeds on an object that has name and whose value decodes
// with d. A missing field and a field of the wrong shape fail the same way.
func DecodeField[A any](name string, d Decoder[A]) Decoder[A] {
	return DecoderFunc[A](func(v Value) (A, bool) {
		var zero A
		o, ok := v.(Obj)
		if !ok {
			return zero, false
		}
		fv, ok := o.fields[name]
		if !ok {
			return zero, false
		}
		return d.Decode(fv)
	})
}
