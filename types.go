// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"encoding/binary"
	"fmt"
)

// Type is a TIFF field type.
type Type uint16

// Field types as defined by TIFF 6.0.
const (
	TypeByte      Type = 1
	TypeASCII     Type = 2
	TypeShort     Type = 3
	TypeLong      Type = 4
	TypeRational  Type = 5
	TypeSByte     Type = 6
	TypeUndefined Type = 7
	TypeSShort    Type = 8
	TypeSLong     Type = 9
	TypeSRational Type = 10
	TypeFloat     Type = 11
	TypeDouble    Type = 12
)

var typeNames = map[Type]string{
	TypeByte:      "BYTE",
	TypeASCII:     "ASCII",
	TypeShort:     "SHORT",
	TypeLong:      "LONG",
	TypeRational:  "RATIONAL",
	TypeSByte:     "SBYTE",
	TypeUndefined: "UNDEFINED",
	TypeSShort:    "SSHORT",
	TypeSLong:     "SLONG",
	TypeSRational: "SRATIONAL",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
}

// Size in bytes of each type.
var typeSizes = map[Type]uint32{
	TypeByte:      1,
	TypeASCII:     1,
	TypeShort:     2,
	TypeLong:      4,
	TypeRational:  8,
	TypeSByte:     1,
	TypeUndefined: 1,
	TypeSShort:    2,
	TypeSLong:     4,
	TypeSRational: 8,
	TypeFloat:     4,
	TypeDouble:    8,
}

// Size returns the size in bytes of a single value of t, or 0 if t is unknown.
func (t Type) Size() uint32 {
	return typeSizes[t]
}

// IsValid reports whether t is one of the twelve TIFF 6.0 types.
func (t Type) IsValid() bool {
	_, found := typeSizes[t]
	return found
}

func (t Type) String() string {
	if name, found := typeNames[t]; found {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint16(t))
}

// uints decodes b as a sequence of unsigned integers of type t.
// Only BYTE, SHORT and LONG are supported.
func (t Type) uints(b []byte, order binary.ByteOrder) ([]uint32, error) {
	size := t.Size()
	switch t {
	case TypeByte, TypeShort, TypeLong:
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedValueType, t)
	}
	vals := make([]uint32, len(b)/int(size))
	for i := range vals {
		v := b[i*int(size):]
		switch t {
		case TypeByte:
			vals[i] = uint32(v[0])
		case TypeShort:
			vals[i] = uint32(order.Uint16(v))
		case TypeLong:
			vals[i] = order.Uint32(v)
		}
	}
	return vals, nil
}
