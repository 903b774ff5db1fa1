package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecodeDoc(t *testing.T, b []byte) (Format, uint64, []byte) {
	t.Helper()
	f, rev, p, err := DecodeDoc(b)
	if err != nil {
		t.Fatalf("DecodeDoc error: %v", err)
	}
	return f, rev, p
}

func TestDocRoundTrip(t *testing.T) {
	cases := []struct {
		format  Format
		rev     uint64
		payload []byte
	}{
		{FormatJSON, 0, nil},
		{FormatCBOR, 42, []byte("hello")},
		{FormatProtobuf, math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := EncodeDoc(tc.format, tc.rev, tc.payload)
		f, rev, p := mustDecodeDoc(t, enc)
		if f != tc.format {
			t.Fatalf("format mismatch: got %d want %d", f, tc.format)
		}
		if rev != tc.rev {
			t.Fatalf("rev mismatch: got %d want %d", rev, tc.rev)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestDocRejectsTrailingBytes(t *testing.T) {
	enc := EncodeDoc(FormatJSON, 7, []byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, _, _, err := DecodeDoc(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestDocCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeDoc(FormatMsgpack, 1, []byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, _, err := DecodeDoc(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, _, err := DecodeDoc(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// vlen too large (announce more than available)
	tooLong := append([]byte(nil), enc...)
	// vlen is at offset 14..17 (4 magic +1 ver +1 format +8 rev)
	binary.BigEndian.PutUint32(tooLong[14:18], uint32(len("abc")+1))
	if _, _, _, err := DecodeDoc(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// truncated buffer
	trunc := enc[:len(enc)-1]
	if _, _, _, err := DecodeDoc(trunc); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}

	// shorter than a header
	if _, _, _, err := DecodeDoc(enc[:hdrLen-1]); err == nil {
		t.Fatalf("expected error on short header")
	}
}

func TestDocZeroCopyPayload(t *testing.T) {
	enc := EncodeDoc(FormatJSON, 1, []byte("Z"))
	_, _, p := mustDecodeDoc(t, enc)
	if len(p) != 1 {
		t.Fatalf("unexpected payload len")
	}
	// mutate payload slice. should mutate underlying enc bytes (zero-copy)
	p[0] = 'Q'
	_, _, p2 := mustDecodeDoc(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]Format{
		"application/json":       FormatJSON,
		"application/cbor":       FormatCBOR,
		"application/msgpack":    FormatMsgpack,
		"application/x-protobuf": FormatProtobuf,
		"text/plain":             FormatUnknown,
		"":                       FormatUnknown,
	}
	for ct, want := range cases {
		if got := FormatOf(ct); got != want {
			t.Fatalf("FormatOf(%q) = %d want %d", ct, got, want)
		}
	}
}
