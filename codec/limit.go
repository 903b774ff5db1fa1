package codec

import (
	"fmt"

	jc "github.com/unkn0wn-root/jsoncodec"
)

// LimitCodec wraps another codec to enforce a maximum allowed payload size
// at Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized/malicious documents coming from a
// shared store or untrusted source.
type LimitCodec[V any] struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec[V]
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Decode. If payload length exceeds MaxDecode, Decode returns
	// ErrPayloadTooLarge without invoking Inner.
	MaxDecode int
	// Name and Hooks are optional; Hooks.PayloadRejected fires on refusal.
	Name  string
	Hooks jc.Hooks
}

// ContentType forwards the inner codec's content type, if it has one.
func (c LimitCodec[V]) ContentType() string {
	if ct, ok := c.Inner.(interface{ ContentType() string }); ok {
		return ct.ContentType()
	}
	return ""
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		if c.Hooks != nil {
			c.Hooks.PayloadRejected(c.Name, len(b), c.MaxDecode)
		}
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
