// Package jsontext converts between JSON text and jsoncodec values.
//
// Parse is strict: the input must be a single valid JSON document with no
// trailing data and no repeated object keys. Numbers are kept exact.
package jsontext

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	gojson "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/unkn0wn-root/jsoncodec"
)

var (
	ErrSyntax       = errors.New("jsontext: invalid JSON")
	ErrDuplicateKey = errors.New("jsontext: duplicate object key")
)

// Parse parses a complete JSON document.
func Parse(data []byte) (jsoncodec.Value, error) {
	if !gojson.Valid(data) {
		return nil, ErrSyntax
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return convert(raw, typ)
}

// Unmarshal parses data and decodes it with d.
func Unmarshal[A any](d jsoncodec.Decoder[A], data []byte) (A, error) {
	v, err := Parse(data)
	if err != nil {
		var zero A
		return zero, err
	}
	return jsoncodec.DecodeValue("", d, v)
}

func convert(raw []byte, typ jsonparser.ValueType) (jsoncodec.Value, error) {
	switch typ {
	case jsonparser.Null:
		return jsoncodec.Null{}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return jsoncodec.Bool(b), nil
	case jsonparser.Number:
		d, err := decimal.NewFromString(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: number %q: %v", ErrSyntax, raw, err)
		}
		return jsoncodec.NewNum(d), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return jsoncodec.Str(s), nil
	case jsonparser.Array:
		return convertArray(raw)
	case jsonparser.Object:
		return convertObject(raw)
	}
	return nil, fmt.Errorf("%w: unexpected token", ErrSyntax)
}

func convertArray(raw []byte) (jsoncodec.Value, error) {
	var (
		items   []jsoncodec.Value
		itemErr error
	)
	_, err := jsonparser.ArrayEach(raw, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = fmt.Errorf("%w: %v", ErrSyntax, err)
			return
		}
		v, err := convert(value, typ)
		if err != nil {
			itemErr = err
			return
		}
		items = append(items, v)
	})
	if itemErr != nil {
		return nil, itemErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return jsoncodec.NewArr(items...), nil
}

func convertObject(raw []byte) (jsoncodec.Value, error) {
	fields := make(map[string]jsoncodec.Value)
	err := jsonparser.ObjectEach(raw, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		name := string(key)
		if _, dup := fields[name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
		}
		v, err := convert(value, typ)
		if err != nil {
			return err
		}
		fields[name] = v
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrSyntax) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return jsoncodec.NewObj(fields), nil
}
