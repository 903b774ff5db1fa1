package jsoncodec

import (
	"math/big"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind identifies which of the six JSON variants a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNum
	KindStr
	KindObj
	KindArr
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNum:
		return "number"
	case KindStr:
		return "string"
	case KindObj:
		return "object"
	case KindArr:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a JSON document. The set of implementations is closed:
// Null, Bool, Num, Str, Obj and Arr. Values are immutable once built.
type Value interface {
	Kind() Kind
	sealed()
}

var (
	_ Value = Null{}
	_ Value = Bool(false)
	_ Value = Num{}
	_ Value = Str("")
	_ Value = Obj{}
	_ Value = Arr{}
)

type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) sealed()    {}

type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) sealed()    {}

type Str string

func (Str) Kind() Kind { return KindStr }
func (Str) sealed()    {}

// Num is an arbitrary-precision decimal number. The zero value is 0.
type Num struct{ d decimal.Decimal }

func (Num) Kind() Kind { return KindNum }
func (Num) sealed()    {}

func NewNum(d decimal.Decimal) Num { return Num{d: d} }

func NumFromInt64(i int64) Num { return Num{d: decimal.NewFromInt(i)} }

func NumFromUint64(u uint64) Num {
	return Num{d: decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)}
}

func NumFromBigInt(i *big.Int) Num { return Num{d: decimal.NewFromBigInt(i, 0)} }

// Decimal returns the exact numeric payload.
func (n Num) Decimal() decimal.Decimal { return n.d }

// plainZeros is the most zeros String pads in positional notation. Past
// it numbers are written as <coefficient>e<exponent>, so 1e30000000 stays
// ten bytes long.
const plainZeros = 20

// String returns n as a JSON number literal.
func (n Num) String() string {
	if n.d.Sign() == 0 {
		return "0"
	}
	exp := int(n.d.Exponent())
	if exp > plainZeros || -exp-n.d.NumDigits() > plainZeros {
		return n.d.Coefficient().String() + "e" + strconv.Itoa(exp)
	}
	return n.d.String()
}

// IsInteger reports whether n has no fractional part.
func (n Num) IsInteger() bool { return n.d.Sign() == 0 || n.d.IsInteger() }

// Integer returns n as a big.Int when n is an integer of at most maxDigits
// digits. Anything larger is refused without being expanded.
func (n Num) Integer(maxDigits int) (*big.Int, bool) {
	d := n.d
	if d.Sign() == 0 {
		return new(big.Int), true
	}
	exp := int(d.Exponent())
	if exp < 0 && !d.IsInteger() {
		return nil, false
	}
	if d.NumDigits()+exp > maxDigits {
		return nil, false
	}
	return d.BigInt(), true
}

// magnitude is the decimal position of the leading digit (1 for 1..9).
func (n Num) magnitude() int { return n.d.NumDigits() + int(n.d.Exponent()) }

func (n Num) Equal(other Num) bool {
	if n.d.Sign() != other.d.Sign() {
		return false
	}
	if n.d.Sign() != 0 && n.magnitude() != other.magnitude() {
		return false
	}
	return n.d.Equal(other.d)
}

// ParseNum parses a decimal literal such as "42", "-0.5" or "1e400" exactly.
func ParseNum(s string) (Num, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Num{}, err
	}
	return Num{d: d}, nil
}

// Member is a single object field, used to build objects with ObjOf.
type Member struct {
	Name  string
	Value Value
}

// Obj is a JSON object. Field order is not significant.
// The zero value is an empty object.
type Obj struct{ fields map[string]Value }

func (Obj) Kind() Kind { return KindObj }
func (Obj) sealed()    {}

// NewObj copies fields into a new object. Nil members become Null.
func NewObj(fields map[string]Value) Obj {
	if len(fields) == 0 {
		return Obj{}
	}
	m := make(map[string]Value, len(fields))
	for k, v := range fields {
		m[k] = orNull(v)
	}
	return Obj{fields: m}
}

// ObjOf builds an object from members; a repeated name keeps the last value.
func ObjOf(members ...Member) Obj {
	if len(members) == 0 {
		return Obj{}
	}
	m := make(map[string]Value, len(members))
	for _, mb := range members {
		m[mb.Name] = orNull(mb.Value)
	}
	return Obj{fields: m}
}

func (o Obj) Len() int { return len(o.fields) }

func (o Obj) Get(name string) (Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Keys returns the field names in sorted order.
func (o Obj) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for every field in sorted key order until fn returns false.
func (o Obj) Range(fn func(name string, v Value) bool) {
	for _, k := range o.Keys() {
		if !fn(k, o.fields[k]) {
			return
		}
	}
}

// Merge returns the union of o and other. On a name present in both,
// the value from other wins.
func (o Obj) Merge(other Obj) Obj {
	switch {
	case len(other.fields) == 0:
		return o
	case len(o.fields) == 0:
		return other
	}
	m := make(map[string]Value, len(o.fields)+len(other.fields))
	for k, v := range o.fields {
		m[k] = v
	}
	for k, v := range other.fields {
		m[k] = v
	}
	return Obj{fields: m}
}

// Arr is a JSON array. The zero value is an empty array.
type Arr struct{ items []Value }

func (Arr) Kind() Kind { return KindArr }
func (Arr) sealed()    {}

// NewArr copies items into a new array. Nil items become Null.
func NewArr(items ...Value) Arr {
	if len(items) == 0 {
		return Arr{}
	}
	out := make([]Value, len(items))
	for i, v := range items {
		out[i] = orNull(v)
	}
	return Arr{items: out}
}

func (a Arr) Len() int       { return len(a.items) }
func (a Arr) At(i int) Value { return a.items[i] }

// Items returns a copy of the array elements.
func (a Arr) Items() []Value { return append([]Value(nil), a.items...) }

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

// Equal reports whether a and b are structurally equal. Objects compare
// by field name regardless of order; numbers compare numerically.
func Equal(a, b Value) bool {
	a, b = orNull(a), orNull(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Str:
		return x == b.(Str)
	case Num:
		return x.Equal(b.(Num))
	case Arr:
		y := b.(Arr)
		if len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case Obj:
		y := b.(Obj)
		if len(x.fields) != len(y.fields) {
			return false
		}
		for k, xv := range x.fields {
			yv, ok := y.fields[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}
