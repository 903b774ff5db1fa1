package jsoncodec

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNum(t *testing.T, s string) Num {
	t.Helper()
	n, err := ParseNum(s)
	require.NoError(t, err)
	return n
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindNull: "null",
		KindBool: "bool",
		KindNum:  "number",
		KindStr:  "string",
		KindObj:  "object",
		KindArr:  "array",
		Kind(99): "unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestEqualStructural(t *testing.T) {
	a := ObjOf(
		Member{"name", Str("Alice")},
		Member{"tags", NewArr(Str("x"), Bool(true), Null{})},
	)
	b := NewObj(map[string]Value{
		"tags": NewArr(Str("x"), Bool(true), Null{}),
		"name": Str("Alice"),
	})
	assert.True(t, Equal(a, b), "object equality must ignore field order")

	assert.False(t, Equal(a, ObjOf(Member{"name", Str("Alice")})))
	assert.False(t, Equal(NewArr(Str("x"), Str("y")), NewArr(Str("y"), Str("x"))), "array order matters")
	assert.False(t, Equal(Str("1"), NumFromInt64(1)))
	assert.True(t, Equal(mustNum(t, "1.0"), NumFromInt64(1)))
	assert.True(t, Equal(Obj{}, NewObj(nil)))
	assert.True(t, Equal(Arr{}, NewArr()))
}

func TestNilMembersBecomeNull(t *testing.T) {
	o := NewObj(map[string]Value{"a": nil})
	v, ok := o.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindNull, v.Kind())

	arr := NewArr(nil, Str("x"))
	assert.Equal(t, KindNull, arr.At(0).Kind())
}

func TestObjIsImmutable(t *testing.T) {
	src := map[string]Value{"a": Str("1")}
	o := NewObj(src)
	src["a"] = Str("2")
	src["b"] = Str("3")

	v, _ := o.Get("a")
	assert.Equal(t, Str("1"), v)
	assert.Equal(t, 1, o.Len())

	items := []Value{Str("x")}
	arr := NewArr(items...)
	items[0] = Str("y")
	got := arr.Items()
	got[0] = Str("z")
	assert.Equal(t, Str("x"), arr.At(0))
}

func TestObjKeysAndRange(t *testing.T) {
	o := ObjOf(Member{"b", Null{}}, Member{"a", Null{}}, Member{"c", Null{}})
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys())

	var seen []string
	o.Range(func(name string, _ Value) bool {
		seen = append(seen, name)
		return name != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestObjMergeRightWins(t *testing.T) {
	left := ObjOf(Member{"a", Str("left")}, Member{"b", Str("left")})
	right := ObjOf(Member{"b", Str("right")}, Member{"c", Str("right")})

	m := left.Merge(right)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	b, _ := m.Get("b")
	assert.Equal(t, Str("right"), b)

	// operands untouched
	b, _ = left.Get("b")
	assert.Equal(t, Str("left"), b)
	assert.Equal(t, 2, right.Len())
}

func TestNumExact(t *testing.T) {
	big1, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	n := NumFromBigInt(big1)
	assert.Equal(t, "123456789012345678901234567890", n.String())
	assert.True(t, n.IsInteger())

	assert.Equal(t, "18446744073709551615", NumFromUint64(^uint64(0)).String())
	assert.False(t, mustNum(t, "0.1").IsInteger())
	assert.True(t, mustNum(t, "1e3").IsInteger())

	_, err := ParseNum("nope")
	assert.Error(t, err)
}

func TestNumHugeExponents(t *testing.T) {
	start := time.Now()

	huge := mustNum(t, "1e30000000")
	assert.Equal(t, "1e30000000", huge.String())
	assert.True(t, huge.IsInteger())
	_, ok := huge.Integer(20)
	assert.False(t, ok)
	assert.False(t, Equal(huge, NumFromInt64(1)))
	assert.True(t, Equal(huge, mustNum(t, "10e29999999")))

	tiny := mustNum(t, "-3e-30000000")
	assert.Equal(t, "-3e-30000000", tiny.String())
	assert.False(t, tiny.IsInteger())

	zero := mustNum(t, "0e-2000000000")
	assert.True(t, zero.IsInteger())
	assert.Equal(t, "0", zero.String())

	assert.Less(t, time.Since(start), time.Second)
}

func TestNumInteger(t *testing.T) {
	b, ok := mustNum(t, "1.2300e3").Integer(20)
	require.True(t, ok)
	assert.Equal(t, int64(1230), b.Int64())

	_, ok = mustNum(t, "12.5").Integer(20)
	assert.False(t, ok)

	b, ok = mustNum(t, "18446744073709551615").Integer(20)
	require.True(t, ok)
	assert.True(t, b.IsUint64())

	_, ok = mustNum(t, "100000000000000000000").Integer(20)
	assert.False(t, ok, "21 digits")
}
