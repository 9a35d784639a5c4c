// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidByteOrder is returned when the first two bytes are neither "II" nor "MM".
	ErrInvalidByteOrder = errors.New("invalid byte order marker")

	// ErrInvalidSignature is returned when the TIFF signature is not 42.
	ErrInvalidSignature = errors.New("invalid signature")

	// Internal error to signal that a read failed and the current unit of work should stop.
	errStop = errors.New("stop")

	// The recovery scan reached the end of the file.
	errEndOfChain = errors.New("end of directory chain")

	errShortRead            = errors.New("short read")
	errOutOfBounds          = errors.New("value outside of source")
	errMissingByteCounts    = errors.New("image data offsets without matching byte counts")
	errMixedImageData       = errors.New("more than one image data layout")
	errStripCountMismatch   = errors.New("strip offsets and byte counts differ in length")
	errUnsupportedValueType = errors.New("unsupported value type")
	errOffsetOverflow       = errors.New("offset does not fit the field type")
)

// InvalidFormatError is returned when the input is not a TIFF file
// or the first directory cannot be read.
type InvalidFormatError struct {
	Err error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("tiffsplit: invalid format: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// IsInvalidFormat reports whether err signals that the input is not a
// (readable) TIFF file. Callers should skip such files.
func IsInvalidFormat(err error) bool {
	var e *InvalidFormatError
	return errors.As(err, &e)
}

func newInvalidFormatError(err error) error {
	if IsInvalidFormat(err) {
		return err
	}
	return &InvalidFormatError{Err: err}
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return newInvalidFormatError(fmt.Errorf(format, args...))
}

func isInvalidFormatErrorCandidate(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, errShortRead)
}

// RelocationError is returned when an entry's value or the image data
// could not be relocated into a split output file.
// It only affects the output file being written.
type RelocationError struct {
	Tag Tag
	Err error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("tiffsplit: relocate %s: %s", e.Tag, e.Err)
}

// Unwrap returns the underlying error.
func (e *RelocationError) Unwrap() error {
	return e.Err
}
