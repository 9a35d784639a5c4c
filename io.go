// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"encoding/binary"
	"fmt"
	"io"
)

// streamReader is a wrapper around a ReadSeeker that provides methods to read binary data.
// Note that this is not thread safe.
type streamReader struct {
	r         io.ReadSeeker
	byteOrder binary.ByteOrder

	// The total size of r in bytes.
	size int64

	buf []byte

	readErr error
}

func newStreamReader(r io.ReadSeeker, byteOrder binary.ByteOrder) (*streamReader, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &streamReader{
		r:         r,
		byteOrder: byteOrder,
		size:      size,
	}, nil
}

func (e *streamReader) allocateBuf(length int) {
	if length > cap(e.buf) {
		e.buf = make([]byte, length)
	}
}

func (e *streamReader) pos() int64 {
	n, _ := e.r.Seek(0, io.SeekCurrent)
	return n
}

func (e *streamReader) read2() uint16 {
	const n = 2
	e.readNIntoBuf(n)
	return e.byteOrder.Uint16(e.buf[:n])
}

func (e *streamReader) read2E() (uint16, error) {
	const n = 2
	if err := e.readNIntoBufE(n); err != nil {
		return 0, err
	}
	return e.byteOrder.Uint16(e.buf[:n]), nil
}

func (e *streamReader) read4() uint32 {
	const n = 4
	e.readNIntoBuf(n)
	return e.byteOrder.Uint32(e.buf[:n])
}

// readBytesVolatile reads a slice of bytes from the stream
// which is not guaranteed to be valid after the next read.
func (e *streamReader) readBytesVolatile(n int) []byte {
	e.readNIntoBuf(n)
	return e.buf[:n]
}

// readAt reads n bytes starting at the absolute offset off.
// The returned slice is owned by the caller.
func (e *streamReader) readAt(off uint32, n uint64) ([]byte, error) {
	if n > uint64(e.size) || int64(off)+int64(n) > e.size {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, size %d", errOutOfBounds, n, off, e.size)
	}
	b := make([]byte, n)
	if n == 0 {
		return b, nil
	}
	if _, err := e.r.Seek(int64(off), io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(e.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (e *streamReader) readNIntoBuf(n int) {
	if err := e.readNIntoBufE(n); err != nil {
		e.stop(err)
	}
}

func (e *streamReader) readNIntoBufE(n int) error {
	e.allocateBuf(n)
	n2, err := io.ReadFull(e.r, e.buf[:n])
	if err != nil {
		return err
	}
	if n != n2 {
		return errShortRead
	}
	return nil
}

func (e *streamReader) seek(pos int64) {
	_, err := e.r.Seek(pos, io.SeekStart)
	if err != nil {
		e.stop(err)
	}
}

func (e *streamReader) stop(err error) {
	if err != nil {
		e.readErr = err
	}
	panic(errStop)
}

// guard runs f and turns a stop in f into the error that caused it.
func (e *streamReader) guard(f func()) (err error) {
	e.readErr = nil
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if r != errStop {
			panic(r)
		}
		err = e.readErr
		if err == nil {
			err = errShortRead
		}
	}()
	f()
	return nil
}
