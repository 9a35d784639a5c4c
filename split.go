// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// SplitOptions contains the options for the Split function.
type SplitOptions struct {
	// The directory to write the split files to. Must exist.
	OutputDir string

	// Warnf will be called for each output file that could not be written.
	Warnf func(string, ...any)
}

// Split writes one single-image TIFF file per directory in doc into opts.OutputDir,
// reading values and image data from src, the file doc was decoded from.
// Typically doc has been normalized first, see Document.Normalize.
//
// Files are named after the directory's DocumentName entry, falling back to the
// stem of doc.FileName. A name already used in this call gets a _N suffix, N being the
// 1-based directory index.
//
// A file that fails does not stop the others from being written. Split returns the
// names of the files written and the errors joined.
func Split(doc *Document, src io.ReadSeeker, opts SplitOptions) ([]string, error) {
	if opts.OutputDir == "" {
		return nil, errors.New("no output directory provided")
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	fallback := fileStem(doc.FileName)
	used := make(map[string]bool)

	var (
		filenames []string
		errs      []error
	)

	for i, dir := range doc.Directories {
		name := uniqueName(imageName(dir, fallback), i+1, used)

		filename := filepath.Join(opts.OutputDir, name+".tif")
		if err := writeImageFile(filename, src, doc.ByteOrder, dir); err != nil {
			opts.Warnf("directory %d: %s", i+1, err)
			errs = append(errs, err)
			continue
		}
		filenames = append(filenames, filename)
	}

	return filenames, errors.Join(errs...)
}

// uniqueName returns name, or name_index if name is taken, marking the result as used.
// Further suffixes are added until the name is unused.
func uniqueName(name string, index int, used map[string]bool) string {
	if used[name] {
		base := fmt.Sprintf("%s_%d", name, index)
		name = base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
	}
	used[name] = true
	return name
}

func writeImageFile(filename string, src io.ReadSeeker, order ByteOrder, dir *Directory) error {
	b, err := buildImage(src, order, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteImage writes dir as a standalone single-image TIFF to w,
// reading values and image data from src.
func WriteImage(w io.Writer, src io.ReadSeeker, order ByteOrder, dir *Directory) error {
	b, err := buildImage(src, order, dir)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func buildImage(src io.ReadSeeker, order ByteOrder, dir *Directory) ([]byte, error) {
	r, err := newStreamReader(src, order.Binary())
	if err != nil {
		return nil, err
	}
	c := &splitContext{
		streamReader: r,
		order:        order,
	}
	return c.build(dir)
}

// Image data offset tags and the byte count tag each pairs with.
var imageDataTags = map[Tag]Tag{
	TagStripOffsets: TagStripByteCounts,
	TagTileOffsets:  TagTileByteCounts,
}

// stripLayout tracks the image data, strips or tiles, of one output file.
type stripLayout struct {
	// StripOffsets or TileOffsets.
	tag Tag

	// The output position of the first offset value.
	slot uint32
	typ  Type

	// The strip offsets in the source.
	offsets []uint32
}

// splitContext holds the state of one output file while it is built.
// The output layout is the header, the directory, the relocated values
// and, last, the image data.
type splitContext struct {
	*streamReader
	order ByteOrder

	buf []byte

	// Where the next relocated value goes.
	nextFree uint32

	strips        *stripLayout
	byteCounts    []uint32
	byteCountsTag Tag
}

func (c *splitContext) build(dir *Directory) ([]byte, error) {
	n := len(dir.Entries)
	if n > math.MaxUint16 {
		return nil, fmt.Errorf("too many entries: %d", n)
	}
	bo := c.order.Binary()

	entriesStart := uint32(headerSize + entryCountSize)
	dirEnd := entriesStart + uint32(n)*entrySize + nextIFDSize

	c.buf = make([]byte, dirEnd)
	putHeader(c.buf, c.order, headerSize)
	bo.PutUint16(c.buf[headerSize:], uint16(n))
	c.nextFree = dirEnd

	for i, e := range dir.Entries {
		pos := entriesStart + uint32(i)*entrySize
		e.put(c.buf[pos:], bo)
		if err := c.handleEntry(pos+8, e); err != nil {
			return nil, &RelocationError{Tag: e.Tag, Err: err}
		}
	}

	// Single image, no chain.
	bo.PutUint32(c.buf[dirEnd-nextIFDSize:], 0)

	if err := c.relocateImageData(); err != nil {
		return nil, &RelocationError{Tag: c.strips.tag, Err: err}
	}

	return c.buf, nil
}

// handleEntry fixes up the value field at valuePos for e.
func (c *splitContext) handleEntry(valuePos uint32, e Entry) error {
	switch e.Tag {
	case TagStripOffsets, TagTileOffsets:
		return c.rememberStrips(valuePos, e)
	case TagPhotometricInterpretation:
		clear(c.buf[valuePos : valuePos+4])
		return nil
	case TagStripByteCounts, TagTileByteCounts:
		if c.byteCounts != nil {
			return errMixedImageData
		}
		counts, err := c.uints(e)
		if err != nil {
			return err
		}
		c.byteCounts = counts
		c.byteCountsTag = e.Tag
	}

	if e.IsInline() {
		return nil
	}

	v, err := c.readAt(e.ValueOffset, e.Size())
	if err != nil {
		return err
	}
	pos, err := c.reserve(e.Size())
	if err != nil {
		return err
	}
	copy(c.buf[pos:], v)
	c.order.Binary().PutUint32(c.buf[valuePos:], pos)

	return nil
}

func (c *splitContext) rememberStrips(valuePos uint32, e Entry) error {
	if c.strips != nil {
		return errMixedImageData
	}
	offsets, err := c.uints(e)
	if err != nil {
		return err
	}
	if e.Type == TypeByte {
		return fmt.Errorf("%w: %s", errUnsupportedValueType, e.Type)
	}

	slot := valuePos
	if !e.IsInline() {
		// The offsets get their final values once the image data is placed.
		if slot, err = c.reserve(e.Size()); err != nil {
			return err
		}
		c.order.Binary().PutUint32(c.buf[valuePos:], slot)
	}

	c.strips = &stripLayout{tag: e.Tag, slot: slot, typ: e.Type, offsets: offsets}

	return nil
}

// relocateImageData copies the image data after the relocated values
// and points the strip or tile offsets to it.
func (c *splitContext) relocateImageData() error {
	if c.strips == nil {
		return nil
	}
	if c.byteCounts == nil || c.byteCountsTag != imageDataTags[c.strips.tag] {
		return errMissingByteCounts
	}
	if len(c.byteCounts) != len(c.strips.offsets) {
		return fmt.Errorf("%w: %d offsets, %d byte counts", errStripCountMismatch, len(c.strips.offsets), len(c.byteCounts))
	}

	bo := c.order.Binary()
	// Image data starts past a one byte gap, word aligned.
	c.nextFree = align(c.nextFree + 1)

	for i, off := range c.strips.offsets {
		size := uint64(c.byteCounts[i])
		data, err := c.readAt(off, size)
		if err != nil {
			return err
		}
		dest := c.nextFree
		if err := c.grow(size); err != nil {
			return err
		}
		copy(c.buf[dest:], data)

		switch c.strips.typ {
		case TypeShort:
			if dest > math.MaxUint16 {
				return fmt.Errorf("%w: %d", errOffsetOverflow, dest)
			}
			bo.PutUint16(c.buf[c.strips.slot+uint32(i)*2:], uint16(dest))
		default:
			bo.PutUint32(c.buf[c.strips.slot+uint32(i)*4:], dest)
		}
	}

	return nil
}

// reserve allocates size bytes at the next word aligned position
// of the data region and returns that position.
func (c *splitContext) reserve(size uint64) (uint32, error) {
	c.nextFree = align(c.nextFree)
	pos := c.nextFree
	if err := c.grow(size); err != nil {
		return 0, err
	}
	return pos, nil
}

// grow extends the output by size bytes at nextFree.
func (c *splitContext) grow(size uint64) error {
	end := uint64(c.nextFree) + size
	if end > math.MaxUint32 {
		return fmt.Errorf("%w: output exceeds 4 GB", errOffsetOverflow)
	}
	if int(end) > len(c.buf) {
		c.buf = append(c.buf, make([]byte, int(end)-len(c.buf))...)
	}
	c.nextFree = uint32(end)
	return nil
}

// uints returns the integer values of e, reading out-of-line values from the source.
func (c *splitContext) uints(e Entry) ([]uint32, error) {
	var b []byte
	if e.IsInline() {
		b = e.valueField(c.order.Binary())[:e.Size()]
	} else {
		var err error
		if b, err = c.readAt(e.ValueOffset, e.Size()); err != nil {
			return nil, err
		}
	}
	return e.Type.uints(b, c.order.Binary())
}
