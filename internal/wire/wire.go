package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 1 + 8 + 4
)

// Format records which byte codec produced a payload.
type Format byte

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatCBOR
	FormatMsgpack
	FormatProtobuf
)

var (
	ErrCorrupt = errors.New("jsoncodec: corrupt entry")
	magic4     = [...]byte{'J', 'S', 'N', 'C'}
)

// FormatOf maps a codec content type to its Format.
func FormatOf(contentType string) Format {
	switch contentType {
	case "application/json":
		return FormatJSON
	case "application/cbor":
		return FormatCBOR
	case "application/msgpack":
		return FormatMsgpack
	case "application/x-protobuf":
		return FormatProtobuf
	}
	return FormatUnknown
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Doc: magic(4) | ver(1) | format(1) | rev(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeDoc(f Format, rev uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(f))

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], rev)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeDoc validates the envelope and returns a payload slice that aliases b.
// Trailing bytes after the payload are treated as corruption.
func DecodeDoc(b []byte) (f Format, rev uint64, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return 0, 0, nil, ErrCorrupt
	}
	f = Format(b[5])
	off := 6

	rev = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // overflow-safe exact length check
		return 0, 0, nil, ErrCorrupt
	}

	return f, rev, b[off : off+vlen], nil
}
