// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package tiffsplit reads multi-image TIFF 6.0 containers, repairs their
// directory chains and splits them into one single-image TIFF file per directory.
package tiffsplit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// UnknownPrefix is used as prefix for unknown tags.
const UnknownPrefix = "UnknownTag_"

const (
	defaultLimitNumDirectories = 10000
	defaultLimitValueSize      = 10 << 20
)

// Options contains the options for the Decode function.
type Options struct {
	// The Reader (typically a *os.File) to read the TIFF from.
	R io.ReadSeeker

	// The name of the file R was opened from.
	// Used as the fallback name when splitting.
	FileName string

	// Warnf will be called for each warning,
	// e.g. a repaired or truncated directory chain.
	Warnf func(string, ...any)

	// LimitNumDirectories is the maximum number of directories to read.
	// Default value is 10000.
	LimitNumDirectories uint32

	// LimitValueSize is the maximum size in bytes of an out-of-line value to read into memory.
	// Larger values are left unresolved (Entry.Value is nil) but are still copied when splitting.
	// Default value is 10 MB.
	LimitValueSize uint32
}

// Document is a decoded TIFF file.
type Document struct {
	FileName  string
	FileSize  int64
	ByteOrder ByteOrder

	// The directories in chain order.
	Directories []*Directory
}

// Normalize returns a copy of doc with its directories normalized, see Normalize.
func (doc *Document) Normalize() *Document {
	doc2 := *doc
	doc2.Directories = Normalize(doc.Directories)
	return &doc2
}

// Decode reads the TIFF header and the directory chain from opts.R.
//
// A chain that ends in a corrupt or missing directory is not an error;
// the returned Document holds the directories read up to that point.
// If R is not a TIFF file, the error is an *InvalidFormatError.
func Decode(opts Options) (doc *Document, err error) {
	if opts.R == nil {
		return nil, errors.New("no reader provided")
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}
	if opts.LimitNumDirectories == 0 {
		opts.LimitNumDirectories = defaultLimitNumDirectories
	}
	if opts.LimitValueSize == 0 {
		opts.LimitValueSize = defaultLimitValueSize
	}

	defer func() {
		if r := recover(); r != nil {
			if r == errStop {
				err = newInvalidFormatError(errShortRead)
				return
			}
			panic(r)
		}
	}()

	sr, err := newStreamReader(opts.R, binary.BigEndian)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		streamReader: sr,
		opts:         opts,
	}

	return d.decode()
}

type decoder struct {
	*streamReader
	opts Options
}

func (d *decoder) decode() (*Document, error) {
	order, err := d.detectByteOrder()
	if err != nil {
		return nil, err
	}

	dirs, err := d.walk()
	if err != nil {
		if isInvalidFormatErrorCandidate(err) {
			err = newInvalidFormatError(err)
		}
		return nil, err
	}

	return &Document{
		FileName:    d.opts.FileName,
		FileSize:    d.size,
		ByteOrder:   order,
		Directories: dirs,
	}, nil
}

// SplitFile decodes and normalizes the TIFF file filename and writes one
// TIFF file per directory into outputDir.
// It returns the names of the files written.
func SplitFile(filename, outputDir string, warnf func(string, ...any)) ([]string, error) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	f, err := os.Open(filename)
	if err != nil {
		warnf("open %s: %s", filename, err)
		return nil, fmt.Errorf("tiffsplit: %w", err)
	}
	defer f.Close()

	doc, err := Decode(Options{R: f, FileName: filepath.Base(filename), Warnf: warnf})
	if err != nil {
		return nil, err
	}

	return Split(doc.Normalize(), f, SplitOptions{OutputDir: outputDir, Warnf: warnf})
}
