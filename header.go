// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"encoding/binary"
	"io"
)

const (
	byteOrderBigEndian    = 0x4d4d // "MM"
	byteOrderLittleEndian = 0x4949 // "II"
	meaningOfLife         = 42

	signaturePosition = 2
	ifdOffsetPosition = 4
	headerSize        = 8
)

// ByteOrder is the byte order of a TIFF file, fixed by its first two bytes.
type ByteOrder uint8

const (
	// LittleEndian is the "II" byte order.
	LittleEndian ByteOrder = iota + 1
	// BigEndian is the "MM" byte order.
	BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little endian"
	case BigEndian:
		return "big endian"
	default:
		return "invalid byte order"
	}
}

// Binary returns the encoding/binary byte order for o.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (o ByteOrder) marker() uint16 {
	if o == BigEndian {
		return byteOrderBigEndian
	}
	return byteOrderLittleEndian
}

// putHeader writes an 8 byte TIFF header with the first IFD at ifdPos.
func putHeader(buf []byte, order ByteOrder, ifdPos uint32) {
	bo := order.Binary()
	// The marker reads the same in both byte orders.
	bo.PutUint16(buf, order.marker())
	bo.PutUint16(buf[signaturePosition:], meaningOfLife)
	bo.PutUint32(buf[ifdOffsetPosition:], ifdPos)
}

// DetectByteOrder reads the TIFF header of r and returns its byte order.
// Any error returned is an *InvalidFormatError, meaning r is not a TIFF file.
func DetectByteOrder(r io.ReadSeeker) (ByteOrder, error) {
	sr, err := newStreamReader(r, binary.BigEndian)
	if err != nil {
		return 0, err
	}
	return sr.detectByteOrder()
}

// detectByteOrder reads the byte order marker and the signature,
// and sets the reader's byte order on success.
func (e *streamReader) detectByteOrder() (ByteOrder, error) {
	if _, err := e.r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	marker, err := e.read2E()
	if err != nil {
		return 0, newInvalidFormatError(ErrInvalidByteOrder)
	}

	var order ByteOrder
	switch marker {
	case byteOrderBigEndian:
		order = BigEndian
	case byteOrderLittleEndian:
		order = LittleEndian
	default:
		return 0, newInvalidFormatError(ErrInvalidByteOrder)
	}
	e.byteOrder = order.Binary()

	if id, err := e.read2E(); err != nil || id != meaningOfLife {
		return 0, newInvalidFormatError(ErrInvalidSignature)
	}

	return order, nil
}
