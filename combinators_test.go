package jsoncodec

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Name  string
	Age   int
	Admin bool
}

var accountEncoder = ContramapObject(
	ZipObject(
		EncodeField[string]("name", String),
		ZipObject(
			EncodeField[int]("age", Int),
			EncodeField[bool]("admin", Boolean),
		),
	),
	func(a account) Pair[string, Pair[int, bool]] {
		return MakePair(a.Name, MakePair(a.Age, a.Admin))
	},
)

var accountDecoder = Map(
	Zip(
		DecodeField[string]("name", String),
		Zip(
			DecodeField[int]("age", Int),
			DecodeField[bool]("admin", Boolean),
		),
	),
	func(p Pair[string, Pair[int, bool]]) account {
		return account{Name: p.First, Age: p.Second.First, Admin: p.Second.Second}
	},
)

func TestContramapLaws(t *testing.T) {
	id := func(s string) string { return s }
	for _, s := range []string{"", "foo", "ünïcode"} {
		assert.True(t, Equal(String.Encode(s), Contramap[string, string](String, id).Encode(s)))
	}

	f := func(i int) string { return strconv.Itoa(i) }
	g := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	lhs := Contramap(Contramap[string, int](String, f), g)
	rhs := Contramap[string, bool](String, func(b bool) string { return f(g(b)) })
	for _, b := range []bool{true, false} {
		assert.True(t, Equal(lhs.Encode(b), rhs.Encode(b)))
	}
}

func TestMapLaws(t *testing.T) {
	inputs := []Value{NumFromInt64(7), Str("7"), Null{}, mustNum(t, "7.5")}

	id := func(i int) int { return i }
	for _, in := range inputs {
		a, aok := Int.Decode(in)
		b, bok := Map[int, int](Int, id).Decode(in)
		assert.Equal(t, aok, bok)
		assert.Equal(t, a, b)
	}

	f := func(i int) string { return strconv.Itoa(i * 2) }
	g := func(s string) int { return len(s) }
	lhs := Map(Map[int, string](Int, f), g)
	rhs := Map[int, int](Int, func(i int) int { return g(f(i)) })
	for _, in := range inputs {
		a, aok := lhs.Decode(in)
		b, bok := rhs.Decode(in)
		assert.Equal(t, aok, bok)
		assert.Equal(t, a, b)
	}
}

func TestMapKeepsFailure(t *testing.T) {
	called := false
	d := Map[string, int](String, func(string) int { called = true; return 1 })
	_, ok := d.Decode(Bool(true))
	assert.False(t, ok)
	assert.False(t, called)
}

func TestZipFailurePropagation(t *testing.T) {
	inputs := []Value{
		Null{},
		Str("x"),
		NumFromInt64(3),
		ObjOf(Member{"a", Str("x")}),
		ObjOf(Member{"b", NumFromInt64(1)}),
		ObjOf(Member{"a", Str("x")}, Member{"b", NumFromInt64(1)}),
		ObjOf(Member{"a", NumFromInt64(1)}, Member{"b", NumFromInt64(1)}),
	}
	da := DecodeField[string]("a", String)
	db := DecodeField[int]("b", Int)
	z := Zip(da, db)

	for _, in := range inputs {
		a, aok := da.Decode(in)
		b, bok := db.Decode(in)
		p, ok := z.Decode(in)
		assert.Equal(t, aok && bok, ok, "input %v", in)
		if ok {
			assert.Equal(t, MakePair(a, b), p)
		}
	}
}

func TestZipObjectFieldUnion(t *testing.T) {
	enc := ZipObject(EncodeField[string]("a", String), EncodeField[int]("b", Int))
	o := enc.EncodeObject(MakePair("x", 1))
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	assert.True(t, Equal(o, enc.Encode(MakePair("x", 1))))
}

func TestZipObjectCollisionRightWins(t *testing.T) {
	enc := ZipObject(EncodeField[string]("k", String), EncodeField[string]("k", String))
	o := enc.EncodeObject(MakePair("left", "right"))
	require.Equal(t, 1, o.Len())
	v, _ := o.Get("k")
	assert.Equal(t, Str("right"), v)
}

func TestRecordEncodesToObject(t *testing.T) {
	v := accountEncoder.Encode(account{Name: "Alice", Age: 42})
	want := ObjOf(
		Member{"name", Str("Alice")},
		Member{"age", NumFromInt64(42)},
		Member{"admin", Bool(false)},
	)
	assert.True(t, Equal(want, v), "got %v", v)
}

func TestRecordRoundTrip(t *testing.T) {
	for _, a := range []account{
		{},
		{Name: "Alice", Age: 42},
		{Name: "root", Age: -1, Admin: true},
	} {
		got, ok := accountDecoder.Decode(accountEncoder.Encode(a))
		require.True(t, ok)
		assert.Equal(t, a, got)
	}
}

func TestRecordWrongFieldShape(t *testing.T) {
	in := ObjOf(
		Member{"name", Str("Alice")},
		Member{"age", Str("42")},
		Member{"admin", Bool(false)},
	)
	_, ok := accountDecoder.Decode(in)
	assert.False(t, ok)
}

func TestDecodeFieldMissingAndNonObject(t *testing.T) {
	d := DecodeField[string]("name", String)
	_, ok := d.Decode(Obj{})
	assert.False(t, ok, "missing key")
	_, ok = d.Decode(NewArr(Str("name")))
	assert.False(t, ok, "not an object")
	_, ok = d.Decode(ObjOf(Member{"name", Null{}}))
	assert.False(t, ok, "wrong shape")

	s, ok := d.Decode(ObjOf(Member{"name", Str("x")}, Member{"extra", Null{}}))
	assert.True(t, ok, "extra fields are ignored")
	assert.Equal(t, "x", s)
}

func TestExtraFieldsAndOrderIgnored(t *testing.T) {
	in := NewObj(map[string]Value{
		"admin": Bool(true),
		"zzz":   Str("ignored"),
		"age":   NumFromInt64(5),
		"name":  Str("n"),
	})
	got, ok := accountDecoder.Decode(in)
	require.True(t, ok)
	assert.Equal(t, account{Name: "n", Age: 5, Admin: true}, got)
}
