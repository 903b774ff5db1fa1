package jsontext

import (
	"bytes"

	gojson "github.com/goccy/go-json"

	"github.com/unkn0wn-root/jsoncodec"
)

// Render writes v as compact JSON. Object keys are emitted in sorted order
// so equal values always render to the same bytes.
func Render(v jsoncodec.Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.Bytes()
}

// Marshal encodes a with e and renders the result.
func Marshal[A any](e jsoncodec.Encoder[A], a A) []byte {
	return Render(e.Encode(a))
}

func writeValue(buf *bytes.Buffer, v jsoncodec.Value) {
	switch x := v.(type) {
	case nil, jsoncodec.Null:
		buf.WriteString("null")
	case jsoncodec.Bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case jsoncodec.Num:
		buf.WriteString(x.String())
	case jsoncodec.Str:
		writeString(buf, string(x))
	case jsoncodec.Arr:
		buf.WriteByte('[')
		for i := 0; i < x.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, x.At(i))
		}
		buf.WriteByte(']')
	case jsoncodec.Obj:
		buf.WriteByte('{')
		first := true
		x.Range(func(name string, fv jsoncodec.Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeString(buf, name)
			buf.WriteByte(':')
			writeValue(buf, fv)
			return true
		})
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	// marshaling a plain string cannot fail
	b, _ := gojson.Marshal(s)
	buf.Write(b)
}
