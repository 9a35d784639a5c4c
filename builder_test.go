// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"bytes"
	"encoding/binary"
)

type testEntry struct {
	tag   Tag
	typ   Type
	count uint32
	// Stored out of line if longer than 4 bytes.
	value []byte
}

// tiffBuilder builds TIFF files in memory.
// Each directory is written after its out-of-line values and
// is chained to the previous one.
type tiffBuilder struct {
	order     ByteOrder
	bo        binary.ByteOrder
	buf       []byte
	positions []uint32
}

func newTIFFBuilder(order ByteOrder) *tiffBuilder {
	b := &tiffBuilder{
		order: order,
		bo:    order.Binary(),
		buf:   make([]byte, headerSize),
	}
	putHeader(b.buf, order, 0)
	return b
}

func (b *tiffBuilder) pad() {
	if len(b.buf)%2 == 1 {
		b.buf = append(b.buf, 0)
	}
}

// blob appends data at the next word boundary and returns its offset.
func (b *tiffBuilder) blob(data []byte) uint32 {
	b.pad()
	pos := uint32(len(b.buf))
	b.buf = append(b.buf, data...)
	return pos
}

// raw appends data as is.
func (b *tiffBuilder) raw(data ...byte) {
	b.buf = append(b.buf, data...)
}

func (b *tiffBuilder) shorts(tag Tag, vals ...uint16) testEntry {
	v := make([]byte, 2*len(vals))
	for i, val := range vals {
		b.bo.PutUint16(v[2*i:], val)
	}
	return testEntry{tag: tag, typ: TypeShort, count: uint32(len(vals)), value: v}
}

func (b *tiffBuilder) longs(tag Tag, vals ...uint32) testEntry {
	v := make([]byte, 4*len(vals))
	for i, val := range vals {
		b.bo.PutUint32(v[4*i:], val)
	}
	return testEntry{tag: tag, typ: TypeLong, count: uint32(len(vals)), value: v}
}

func (b *tiffBuilder) rational(tag Tag, num, den uint32) testEntry {
	v := make([]byte, 8)
	b.bo.PutUint32(v, num)
	b.bo.PutUint32(v[4:], den)
	return testEntry{tag: tag, typ: TypeRational, count: 1, value: v}
}

func (b *tiffBuilder) ascii(tag Tag, s string) testEntry {
	v := append([]byte(s), 0)
	return testEntry{tag: tag, typ: TypeASCII, count: uint32(len(v)), value: v}
}

// dir writes a directory and returns its position.
func (b *tiffBuilder) dir(entries ...testEntry) uint32 {
	fields := make([]uint32, len(entries))
	for i, e := range entries {
		if len(e.value) > 4 {
			fields[i] = b.blob(e.value)
			continue
		}
		var f [4]byte
		copy(f[:], e.value)
		fields[i] = b.bo.Uint32(f[:])
	}

	b.pad()
	pos := uint32(len(b.buf))
	table := make([]byte, entryCountSize+len(entries)*entrySize+nextIFDSize)
	b.bo.PutUint16(table, uint16(len(entries)))
	for i, e := range entries {
		p := table[entryCountSize+i*entrySize:]
		b.bo.PutUint16(p, uint16(e.tag))
		b.bo.PutUint16(p[2:], uint16(e.typ))
		b.bo.PutUint32(p[4:], e.count)
		b.bo.PutUint32(p[8:], fields[i])
	}
	b.buf = append(b.buf, table...)

	if len(b.positions) == 0 {
		b.bo.PutUint32(b.buf[ifdOffsetPosition:], pos)
	} else {
		b.setNext(b.positions[len(b.positions)-1], pos)
	}
	b.positions = append(b.positions, pos)

	return pos
}

// setNext overwrites the next directory offset of the directory at dirPos.
func (b *tiffBuilder) setNext(dirPos, next uint32) {
	n := uint32(b.bo.Uint16(b.buf[dirPos:]))
	b.bo.PutUint32(b.buf[dirPos+entryCountSize+n*entrySize:], next)
}

func (b *tiffBuilder) bytes() []byte {
	return bytes.Clone(b.buf)
}

func (b *tiffBuilder) reader() *bytes.Reader {
	return bytes.NewReader(b.bytes())
}

// newTestContainer builds a little endian container the way the archival producer
// writes them: a first page carrying the descriptive tags and continuation
// pages starting with NewSubfileType.
func newTestContainer(order ByteOrder, pixels ...[]byte) *tiffBuilder {
	b := newTIFFBuilder(order)
	for i, px := range pixels {
		off := b.blob(px)
		name := string(rune('A' + i))
		entries := []testEntry{
			b.longs(TagNewSubfileType, 0),
			b.longs(TagImageWidth, 100),
			b.longs(TagImageLength, 1),
			b.shorts(TagPhotometricInterpretation, 1),
			b.ascii(TagDocumentName, "ARCHIVE,0001,PAGE"+name),
			b.longs(TagStripOffsets, off),
			b.longs(TagStripByteCounts, uint32(len(px))),
			b.rational(TagXResolution, 300, 1),
		}
		if i == 0 {
			entries = append(entries,
				b.ascii(TagMake, "Scanner Inc."),
				b.ascii(TagSoftware, "Archiver 2.1"),
				b.ascii(TagDateTime, "2010:11:03 10:00:00"),
			)
		}
		b.dir(entries...)
	}
	return b
}
