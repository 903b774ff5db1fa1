package jsoncodec

import (
	"errors"
	"fmt"
)

// ErrMismatch is the error form of a failed Decode, for layers that must
// return an error (byte codecs, stores).
var ErrMismatch = errors.New("jsoncodec: shape mismatch")

// DecodeError reports that a decoder rejected a value. It carries no
// position information; Got is the kind of the top-level value.
type DecodeError struct {
	Codec string
	Got   Kind
}

func (e *DecodeError) Error() string {
	if e.Codec == "" {
		return fmt.Sprintf("jsoncodec: shape mismatch (got %s)", e.Got)
	}
	return fmt.Sprintf("jsoncodec: %s: shape mismatch (got %s)", e.Codec, e.Got)
}

func (e *DecodeError) Unwrap() error { return ErrMismatch }

// DecodeValue runs d on v and converts a failure into a *DecodeError.
func DecodeValue[A any](name string, d Decoder[A], v Value) (A, error) {
	a, ok := d.Decode(v)
	if !ok {
		var zero A
		return zero, &DecodeError{Codec: name, Got: orNull(v).Kind()}
	}
	return a, nil
}
