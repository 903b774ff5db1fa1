package codec

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	jc "github.com/unkn0wn-root/jsoncodec"
)

// Protobuf writes values as a serialized google.protobuf.Value, the
// well-known JSON type of protocol buffers.
//
// google.protobuf.Value carries numbers as double. Encode fails with
// ErrInexactNumber for any number that would not survive that conversion
// (e.g. integers above 2^53); use JSON, CBOR or Msgpack for those.
type Protobuf[V any] struct{ typed[V] }

var _ Codec[jc.Value] = Protobuf[jc.Value]{}

func NewProtobuf[V any](c jc.Codec[V], opts Options) Protobuf[V] {
	return Protobuf[V]{typed: newTyped(c, "protobuf", opts)}
}

func (Protobuf[V]) ContentType() string { return "application/x-protobuf" }

func (c Protobuf[V]) Encode(v V) ([]byte, error) {
	pv, err := ToStructpb(c.c.Encode(v))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(pv)
}

func (c Protobuf[V]) Decode(b []byte) (V, error) {
	pv := &structpb.Value{}
	if err := proto.Unmarshal(b, pv); err != nil {
		return c.parseFailed(len(b), err)
	}
	val, err := FromStructpb(pv)
	if err != nil {
		return c.parseFailed(len(b), err)
	}
	return c.decodeValue(val, len(b))
}

// ToStructpb converts v to a google.protobuf.Value.
func ToStructpb(v jc.Value) (*structpb.Value, error) {
	switch x := v.(type) {
	case nil, jc.Null:
		return structpb.NewNullValue(), nil
	case jc.Bool:
		return structpb.NewBoolValue(bool(x)), nil
	case jc.Str:
		return structpb.NewStringValue(string(x)), nil
	case jc.Num:
		f, ok := exactFloat(x)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInexactNumber, x.String())
		}
		return structpb.NewNumberValue(f), nil
	case jc.Arr:
		list := &structpb.ListValue{Values: make([]*structpb.Value, x.Len())}
		for i := range list.Values {
			pv, err := ToStructpb(x.At(i))
			if err != nil {
				return nil, err
			}
			list.Values[i] = pv
		}
		return structpb.NewListValue(list), nil
	case jc.Obj:
		st := &structpb.Struct{Fields: make(map[string]*structpb.Value, x.Len())}
		var err error
		x.Range(func(name string, fv jc.Value) bool {
			var pv *structpb.Value
			pv, err = ToStructpb(fv)
			st.Fields[name] = pv
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(st), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// exactFloat returns n as a float64 when the conversion loses nothing.
// Magnitudes far outside the float64 range are refused before conversion,
// which would otherwise expand the exponent.
func exactFloat(n jc.Num) (float64, bool) {
	d := n.Decimal()
	if d.Sign() == 0 {
		return 0, true
	}
	if mag := d.NumDigits() + int(d.Exponent()); mag > 310 || mag < -330 {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, decimal.NewFromFloat(f).Equal(d)
}

// FromStructpb converts a google.protobuf.Value to a jsoncodec value.
// An unset kind reads as null.
func FromStructpb(pv *structpb.Value) (jc.Value, error) {
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return jc.Null{}, nil
	case *structpb.Value_BoolValue:
		return jc.Bool(k.BoolValue), nil
	case *structpb.Value_StringValue:
		return jc.Str(k.StringValue), nil
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: non-finite number", ErrUnsupported)
		}
		return jc.NewNum(decimal.NewFromFloat(f)), nil
	case *structpb.Value_ListValue:
		vals := k.ListValue.GetValues()
		items := make([]jc.Value, len(vals))
		for i, it := range vals {
			v, err := FromStructpb(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return jc.NewArr(items...), nil
	case *structpb.Value_StructValue:
		src := k.StructValue.GetFields()
		fields := make(map[string]jc.Value, len(src))
		for name, it := range src {
			v, err := FromStructpb(it)
			if err != nil {
				return nil, err
			}
			fields[name] = v
		}
		return jc.NewObj(fields), nil
	}
	return nil, fmt.Errorf("%w: protobuf kind %T", ErrUnsupported, pv.GetKind())
}
