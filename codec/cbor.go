package codec

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/shopspring/decimal"

	jc "github.com/unkn0wn-root/jsoncodec"
)

// tagDecimalFraction is the RFC 8949 decimal fraction tag: [exponent, mantissa].
const tagDecimalFraction = 4

// maxBignumDigits bounds integers written as CBOR ints or bignums. Larger
// ones (1e400) go out as a decimal fraction with a positive exponent.
const maxBignumDigits = 40

// CBOR is a Codec that serializes values using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs (e.g., hashing/content addressing).
// Otherwise PreferredUnsortedEncOptions are used (sensible defaults).
//
// Numbers stay exact: integers of up to 40 digits use CBOR ints or bignums,
// everything else a decimal fraction. Maps with repeated keys are rejected on decode.
type CBOR[V any] struct {
	typed[V]
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[jc.Value] = CBOR[jc.Value]{}

// NewCBOR constructs a CBOR codec.
//   - Deterministic is true, uses CoreDetEncOptions (RFC 8949).
//   - Otherwise uses PreferredUnsortedEncOptions (smaller/faster defaults).
func NewCBOR[V any](c jc.Codec[V], deterministic bool, opts Options) (CBOR[V], error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.BigIntConvert = cbor.BigIntConvertShortest

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	dm, err := cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{typed: newTyped(c, "cbor", opts), enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Should not use for prod just handy for package-level variables in tests/examples.
func MustCBOR[V any](c jc.Codec[V], deterministic bool, opts Options) CBOR[V] {
	cc, err := NewCBOR(c, deterministic, opts)
	if err != nil {
		panic(err)
	}
	return cc
}

func (CBOR[V]) ContentType() string { return "application/cbor" }

// Encode encodes v as CBOR using the configured EncMode.
func (c CBOR[V]) Encode(v V) ([]byte, error) {
	return c.enc.Marshal(toCBOR(c.c.Encode(v)))
}

// Decode decodes b into a V using the configured DecMode.
func (c CBOR[V]) Decode(b []byte) (V, error) {
	var item any
	if err := c.dec.Unmarshal(b, &item); err != nil {
		return c.parseFailed(len(b), err)
	}
	val, err := fromCBOR(item)
	if err != nil {
		return c.parseFailed(len(b), err)
	}
	return c.decodeValue(val, len(b))
}

func toCBOR(v jc.Value) any {
	switch x := v.(type) {
	case jc.Bool:
		return bool(x)
	case jc.Str:
		return string(x)
	case jc.Num:
		if b, ok := x.Integer(maxBignumDigits); ok {
			return intItem(b)
		}
		d := x.Decimal()
		return cbor.Tag{
			Number:  tagDecimalFraction,
			Content: []any{int64(d.Exponent()), intItem(d.Coefficient())},
		}
	case jc.Arr:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = toCBOR(x.At(i))
		}
		return out
	case jc.Obj:
		out := make(map[string]any, x.Len())
		x.Range(func(name string, fv jc.Value) bool {
			out[name] = toCBOR(fv)
			return true
		})
		return out
	}
	return nil
}

func intItem(b *big.Int) any {
	switch {
	case b.IsInt64():
		return b.Int64()
	case b.IsUint64():
		return b.Uint64()
	}
	return b
}

func fromCBOR(item any) (jc.Value, error) {
	switch x := item.(type) {
	case nil:
		return jc.Null{}, nil
	case bool:
		return jc.Bool(x), nil
	case string:
		return jc.Str(x), nil
	case uint64:
		return jc.NumFromUint64(x), nil
	case int64:
		return jc.NumFromInt64(x), nil
	case big.Int:
		return jc.NumFromBigInt(&x), nil
	case *big.Int:
		return jc.NumFromBigInt(x), nil
	case float64:
		return floatNum(x)
	case float32:
		return floatNum(float64(x))
	case []any:
		items := make([]jc.Value, len(x))
		for i, it := range x {
			v, err := fromCBOR(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return jc.NewArr(items...), nil
	case map[string]any:
		fields := make(map[string]jc.Value, len(x))
		for k, it := range x {
			v, err := fromCBOR(it)
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		return jc.NewObj(fields), nil
	case cbor.Tag:
		if x.Number == tagDecimalFraction {
			return decimalFraction(x.Content)
		}
		return nil, fmt.Errorf("%w: cbor tag %d", ErrUnsupported, x.Number)
	}
	return nil, fmt.Errorf("%w: cbor %T", ErrUnsupported, item)
}

func decimalFraction(content any) (jc.Value, error) {
	parts, ok := content.([]any)
	if !ok || len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed decimal fraction", ErrUnsupported)
	}
	exp, ok := toBig(parts[0])
	if !ok || !exp.IsInt64() || exp.Int64() < math.MinInt32 || exp.Int64() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: decimal fraction exponent", ErrUnsupported)
	}
	mant, ok := toBig(parts[1])
	if !ok {
		return nil, fmt.Errorf("%w: decimal fraction mantissa", ErrUnsupported)
	}
	return jc.NewNum(decimal.NewFromBigInt(mant, int32(exp.Int64()))), nil
}

func toBig(item any) (*big.Int, bool) {
	switch x := item.(type) {
	case int64:
		return big.NewInt(x), true
	case uint64:
		return new(big.Int).SetUint64(x), true
	case big.Int:
		return &x, true
	case *big.Int:
		return x, true
	}
	return nil, false
}

func floatNum(f float64) (jc.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite number", ErrUnsupported)
	}
	return jc.NewNum(decimal.NewFromFloat(f)), nil
}
