// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"encoding/binary"
	"fmt"
	"slices"
)

const (
	entrySize      = 12
	entryCountSize = 2
	nextIFDSize    = 4
)

// Entry is a single directory entry and its resolved value.
type Entry struct {
	// The file offset of the entry itself.
	Position uint32

	Tag   Tag
	Type  Type
	Count uint32

	// The raw value field decoded as a 32 bit integer in the file's byte order.
	// This is the value's file offset if the value is out of line.
	ValueOffset uint32

	// The value bytes. For inline values this is the first Size() bytes of the value field.
	// Nil if the value is out of line and could not be (or was not) read.
	Value []byte
}

// Size returns the size in bytes of the entry's value.
func (e Entry) Size() uint64 {
	return uint64(e.Type.Size()) * uint64(e.Count)
}

// IsInline reports whether the value is stored in the entry's own value field.
func (e Entry) IsInline() bool {
	return e.Size() <= 4
}

// ASCII returns the value decoded as Latin-1 with trailing NULs removed.
func (e Entry) ASCII() string {
	return decodeLatin1(e.Value)
}

// Uints returns the value as unsigned integers.
// It returns nil if the type is not BYTE, SHORT or LONG or the value is not resolved.
func (e Entry) Uints(order ByteOrder) []uint32 {
	if e.Value == nil {
		return nil
	}
	vals, err := e.Type.uints(e.Value, order.Binary())
	if err != nil {
		return nil
	}
	return vals
}

// valueField returns the raw 4 byte value field as stored in the file.
func (e Entry) valueField(order binary.ByteOrder) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, e.ValueOffset)
	return b
}

// put writes the entry's 12 byte on-disk form into buf.
func (e Entry) put(buf []byte, order binary.ByteOrder) {
	order.PutUint16(buf, uint16(e.Tag))
	order.PutUint16(buf[2:], uint16(e.Type))
	order.PutUint32(buf[4:], e.Count)
	order.PutUint32(buf[8:], e.ValueOffset)
}

// Directory is an Image File Directory.
type Directory struct {
	// The file offset of the directory's entry count.
	Position uint32

	// The entries in file order.
	Entries []Entry
}

// Lookup returns the last entry with the given tag.
func (d *Directory) Lookup(tag Tag) (Entry, bool) {
	for i := len(d.Entries) - 1; i >= 0; i-- {
		if d.Entries[i].Tag == tag {
			return d.Entries[i], true
		}
	}
	return Entry{}, false
}

// Tags returns the directory's tags in entry order.
func (d *Directory) Tags() []Tag {
	tags := make([]Tag, len(d.Entries))
	for i, e := range d.Entries {
		tags[i] = e.Tag
	}
	return tags
}

func (d *Directory) clone() *Directory {
	return &Directory{Position: d.Position, Entries: slices.Clone(d.Entries)}
}

// A tag is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of data values of the specified type
//   - 4 bytes for the value itself, if it fits, otherwise for a pointer to another location where the data may be found.
func (d *decoder) decodeEntry(pos int64) Entry {
	d.seek(pos)
	e := Entry{
		Position: uint32(pos),
		Tag:      Tag(d.read2()),
		Type:     Type(d.read2()),
		Count:    d.read4(),
	}
	field := d.readBytesVolatile(4)
	e.ValueOffset = d.byteOrder.Uint32(field)

	if !e.Type.IsValid() {
		d.stop(newInvalidFormatErrorf("unknown type %d for tag %s at offset %d", e.Type, e.Tag, pos))
	}

	size := e.Size()
	if size <= 4 {
		e.Value = make([]byte, size)
		copy(e.Value, field)
		return e
	}

	if size > uint64(d.opts.LimitValueSize) {
		d.opts.Warnf("value of %s at offset %d is %d bytes, skipped", e.Tag, pos, size)
		return e
	}

	v, err := d.readAt(e.ValueOffset, size)
	if err != nil {
		d.opts.Warnf("value of %s at offset %d: %s", e.Tag, pos, err)
		return e
	}
	e.Value = v

	return e
}

// decodeDirectory reads the directory at pos and the offset of the next directory.
// A next offset that cannot be read ends the chain at this directory (next is 0).
func (d *decoder) decodeDirectory(pos uint32) (dir *Directory, next uint32, err error) {
	var nextPos int64
	err = d.guard(func() {
		d.seek(int64(pos))
		count := d.read2()
		entriesStart := int64(pos) + entryCountSize
		if entriesStart+int64(count)*entrySize > d.size {
			d.stop(fmt.Errorf("%d entries at offset %d: %w", count, pos, errOutOfBounds))
		}
		dir = &Directory{Position: pos, Entries: make([]Entry, 0, count)}
		for i := range int64(count) {
			dir.Entries = append(dir.Entries, d.decodeEntry(entriesStart+i*entrySize))
		}
		nextPos = entriesStart + int64(count)*entrySize
	})
	if err != nil {
		return nil, 0, err
	}

	if err := d.guard(func() {
		d.seek(nextPos)
		next = d.read4()
	}); err != nil {
		d.opts.Warnf("next directory offset at %d: %s, end of chain", nextPos, err)
		return dir, 0, nil
	}

	return dir, next, nil
}

// walk follows the directory chain from the first IFD offset in the header.
// The chain ends on a zero offset, on an offset at or past the end of the file,
// on a directory that cannot be read, or on a cycle.
func (d *decoder) walk() ([]*Directory, error) {
	var offset uint32
	if err := d.guard(func() {
		d.seek(ifdOffsetPosition)
		offset = d.read4()
	}); err != nil {
		return nil, newInvalidFormatError(err)
	}

	var dirs []*Directory
	seen := make(map[uint32]bool)

	for offset != 0 && int64(offset) < d.size {
		if seen[offset] {
			d.opts.Warnf("directory at offset %d already visited, end of chain", offset)
			break
		}
		if uint32(len(dirs)) >= d.opts.LimitNumDirectories {
			d.opts.Warnf("more than %d directories, end of chain", d.opts.LimitNumDirectories)
			break
		}
		seen[offset] = true

		dir, next, err := d.decodeDirectory(offset)
		if err != nil {
			if len(dirs) == 0 {
				return nil, newInvalidFormatError(err)
			}
			d.opts.Warnf("directory at offset %d: %s, end of chain", offset, err)
			break
		}
		dirs = append(dirs, dir)

		if next == 0 || int64(next) >= d.size {
			break
		}

		recovered, err := d.recoverOffset(next)
		if err != nil {
			// Use the offset as stored; a bad one ends the chain on the next read.
			offset = next
			continue
		}
		if recovered != next {
			d.opts.Warnf("next directory offset %d repaired to %d", next, recovered)
		}
		offset = recovered
	}

	return dirs, nil
}
