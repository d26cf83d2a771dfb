// Package protoutil содержит минимальные помощники поверх protowire для
// кодирования wire-страниц и snapshot-записей без сгенерированного кода.
package protoutil

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed indicates that bytes are not a valid protobuf message
var ErrMalformed = errors.New("malformed protobuf message")

// Field is one decoded top-level field of a message
type Field struct {
	Bytes  []byte
	Varint uint64
	Num    protowire.Number
	Type   protowire.Type
}

// String returns the field as a string (length-delimited fields only)
func (f Field) String() string {
	return string(f.Bytes)
}

// Int64 returns the field as a signed integer (varint fields only)
func (f Field) Int64() int64 {
	return int64(f.Varint)
}

// Int returns the field as int
func (f Field) Int() int {
	return int(f.Varint)
}

// Bool returns the field as bool
func (f Field) Bool() bool {
	return f.Varint != 0
}

// AppendString appends a string field. Empty strings are omitted (proto3 semantics).
func AppendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// AppendInt64 appends a varint field. Zero is omitted.
func AppendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// AppendBool appends a bool field. False is omitted.
func AppendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

// AppendMessage appends an embedded message field. Empty messages are still written
// so that repeated fields keep their cardinality.
func AppendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// Walk iterates over top-level fields of a message in wire order.
// Fixed32/fixed64 and group fields are skipped.
func Walk(b []byte, fn func(Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(Field{Num: num, Type: typ, Varint: v}); err != nil {
				return err
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(Field{Num: num, Type: typ, Bytes: v}); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
