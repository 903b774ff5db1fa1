package codec

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	jc "github.com/unkn0wn-root/jsoncodec"
)

// Msgpack is a Codec that serializes values using vmihailenco/msgpack/v5.
// Construct with NewMsgpack; the zero value is not usable.
//
// Integers that fit 64 bits are written as msgpack ints. Any other number is
// written as a bin item holding its decimal text, which keeps it exact;
// JSON has no binary type, so bin is never ambiguous. Floats produced by
// other msgpack writers are accepted on decode.
type Msgpack[V any] struct{ typed[V] }

var _ Codec[jc.Value] = Msgpack[jc.Value]{}

func NewMsgpack[V any](c jc.Codec[V], opts Options) Msgpack[V] {
	return Msgpack[V]{typed: newTyped(c, "msgpack", opts)}
}

func (Msgpack[V]) ContentType() string { return "application/msgpack" }

func (c Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(toMsgpack(c.c.Encode(v)))
}

func (c Msgpack[V]) Decode(b []byte) (V, error) {
	var item any
	if err := msgpack.Unmarshal(b, &item); err != nil {
		return c.parseFailed(len(b), err)
	}
	val, err := fromMsgpack(item)
	if err != nil {
		return c.parseFailed(len(b), err)
	}
	return c.decodeValue(val, len(b))
}

func toMsgpack(v jc.Value) any {
	switch x := v.(type) {
	case jc.Bool:
		return bool(x)
	case jc.Str:
		return string(x)
	case jc.Num:
		if b, ok := x.Integer(20); ok {
			switch {
			case b.IsInt64():
				return b.Int64()
			case b.IsUint64():
				return b.Uint64()
			}
		}
		return []byte(x.String())
	case jc.Arr:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = toMsgpack(x.At(i))
		}
		return out
	case jc.Obj:
		out := make(map[string]any, x.Len())
		x.Range(func(name string, fv jc.Value) bool {
			out[name] = toMsgpack(fv)
			return true
		})
		return out
	}
	return nil
}

func fromMsgpack(item any) (jc.Value, error) {
	switch x := item.(type) {
	case nil:
		return jc.Null{}, nil
	case bool:
		return jc.Bool(x), nil
	case string:
		return jc.Str(x), nil
	case int8:
		return jc.NumFromInt64(int64(x)), nil
	case int16:
		return jc.NumFromInt64(int64(x)), nil
	case int32:
		return jc.NumFromInt64(int64(x)), nil
	case int64:
		return jc.NumFromInt64(x), nil
	case uint8:
		return jc.NumFromUint64(uint64(x)), nil
	case uint16:
		return jc.NumFromUint64(uint64(x)), nil
	case uint32:
		return jc.NumFromUint64(uint64(x)), nil
	case uint64:
		return jc.NumFromUint64(x), nil
	case float32:
		return floatNum(float64(x))
	case float64:
		return floatNum(x)
	case []byte:
		d, err := decimal.NewFromString(string(x))
		if err != nil {
			return nil, fmt.Errorf("%w: msgpack bin is not a number", ErrUnsupported)
		}
		return jc.NewNum(d), nil
	case []any:
		items := make([]jc.Value, len(x))
		for i, it := range x {
			v, err := fromMsgpack(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return jc.NewArr(items...), nil
	case map[string]any:
		fields := make(map[string]jc.Value, len(x))
		for k, it := range x {
			v, err := fromMsgpack(it)
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		return jc.NewObj(fields), nil
	}
	return nil, fmt.Errorf("%w: msgpack %T", ErrUnsupported, item)
}
