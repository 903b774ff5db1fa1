package codec

import (
	jc "github.com/unkn0wn-root/jsoncodec"
	"github.com/unkn0wn-root/jsoncodec/jsontext"
)

// JSON writes values as compact JSON text with sorted object keys.
// Construct with NewJSON; the zero value is not usable.
type JSON[V any] struct{ typed[V] }

var _ Codec[jc.Value] = JSON[jc.Value]{}

func NewJSON[V any](c jc.Codec[V], opts Options) JSON[V] {
	return JSON[V]{typed: newTyped(c, "json", opts)}
}

func (JSON[V]) ContentType() string { return "application/json" }

func (c JSON[V]) Encode(v V) ([]byte, error) { return jsontext.Render(c.c.Encode(v)), nil }

func (c JSON[V]) Decode(b []byte) (V, error) {
	val, err := jsontext.Parse(b)
	if err != nil {
		return c.parseFailed(len(b), err)
	}
	return c.decodeValue(val, len(b))
}
