// Package codec turns jsoncodec encoder/decoder pairs into byte codecs for
// storage and transport.
//
// Every codec here goes through the jsoncodec.Value model, so the same
// Codec[V] definition can be written as JSON text, CBOR, MessagePack or a
// protobuf google.protobuf.Value. JSON, CBOR and MessagePack keep numbers
// exact; protobuf carries numbers as float64 and refuses values it would
// round.
package codec

import (
	"errors"
	"fmt"

	jc "github.com/unkn0wn-root/jsoncodec"
	"github.com/unkn0wn-root/jsoncodec/internal/util"
)

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

var (
	ErrPayloadTooLarge = errors.New("codec: payload too large")
	ErrInexactNumber   = errors.New("codec: number cannot be represented exactly")
	ErrUnsupported     = errors.New("codec: item has no JSON equivalent")
)

// Options are shared by all value codecs. The zero value is ready to use.
type Options struct {
	Name   string    // reported to Logger and Hooks; defaults to the format name
	Logger jc.Logger // if nil, NopLogger is used
	Hooks  jc.Hooks  // if nil, NopHooks is used
}

// typed holds what every format needs: the value codec and reporting.
type typed[V any] struct {
	c     jc.Codec[V]
	name  string
	log   jc.Logger
	hooks jc.Hooks
}

func newTyped[V any](c jc.Codec[V], format string, opts Options) typed[V] {
	if c == nil {
		panic("codec: nil value codec")
	}
	return typed[V]{
		c:     c,
		name:  util.Coalesce(opts.Name, format),
		log:   util.Coalesce[jc.Logger](opts.Logger, jc.NopLogger{}),
		hooks: util.Coalesce[jc.Hooks](opts.Hooks, jc.NopHooks{}),
	}
}

func (t typed[V]) decodeValue(v jc.Value, size int) (V, error) {
	out, ok := t.c.Decode(v)
	if !ok {
		kind := v.Kind()
		t.hooks.DecodeRejected(t.name, kind)
		t.log.Debug("value rejected by decoder", jc.Fields{"codec": t.name, "got": kind.String(), "size": size})
		var zero V
		return zero, &jc.DecodeError{Codec: t.name, Got: kind}
	}
	return out, nil
}

func (t typed[V]) parseFailed(size int, err error) (V, error) {
	t.hooks.ParseFailed(t.name, size, err)
	t.log.Debug("payload did not parse", jc.Fields{"codec": t.name, "size": size, "err": err})
	var zero V
	return zero, fmt.Errorf("%s: %w", t.name, err)
}
