// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func asciiEntry(pos uint32, tag Tag, s string) Entry {
	v := append([]byte(s), 0)
	return Entry{Position: pos, Tag: tag, Type: TypeASCII, Count: uint32(len(v)), ValueOffset: pos + 100, Value: v}
}

func longEntry(pos uint32, tag Tag, v uint32) Entry {
	b := make([]byte, 4)
	LittleEndian.Binary().PutUint32(b, v)
	return Entry{Position: pos, Tag: tag, Type: TypeLong, Count: 1, ValueOffset: v, Value: b}
}

func asciiValues(dir *Directory) map[Tag]string {
	m := make(map[Tag]string)
	for _, e := range dir.Entries {
		if e.Type == TypeASCII {
			m[e.Tag] = e.ASCII()
		}
	}
	return m
}

func newNormalizeInput() []*Directory {
	return []*Directory{
		{
			Position: 8,
			Entries: []Entry{
				longEntry(10, TagNewSubfileType, 0),
				longEntry(22, TagImageWidth, 100),
				asciiEntry(34, TagDocumentName, "A,1,PAGEA"),
				asciiEntry(46, TagMake, "Scanner Inc."),
				asciiEntry(58, TagSoftware, "Archiver 2.1"),
				asciiEntry(70, TagDateTime, "2010:11:03 10:00:00"),
			},
		},
		{
			Position: 200,
			Entries: []Entry{
				longEntry(202, TagNewSubfileType, 0),
				longEntry(214, TagImageWidth, 200),
				asciiEntry(226, TagDocumentName, "A,1,PAGEB"),
				asciiEntry(238, TagSoftware, "Rescanner 1.0"),
				longEntry(250, TagImageLength, 7),
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	c := qt.New(t)

	dirs := newNormalizeInput()
	normalized := Normalize(dirs)
	c.Assert(normalized, qt.HasLen, 2)

	c.Run("first directory unchanged", func(c *qt.C) {
		c.Assert(normalized[0], qt.CmpEquals(), dirs[0])
		c.Assert(normalized[0] != dirs[0], qt.IsTrue)
	})

	c.Run("continuation merged", func(c *qt.C) {
		merged := normalized[1]
		c.Assert(merged.Position, qt.Equals, uint32(8))
		c.Assert(merged.Tags(), qt.DeepEquals, []Tag{
			TagNewSubfileType,
			TagImageWidth,
			TagImageLength,
			TagDocumentName,
			TagMake,
			TagSoftware,
			TagDateTime,
		})

		width, _ := merged.Lookup(TagImageWidth)
		c.Assert(width.Uints(LittleEndian), qt.DeepEquals, []uint32{200})

		length, _ := merged.Lookup(TagImageLength)
		c.Assert(length.Position, qt.Equals, uint32(250))

		c.Assert(asciiValues(merged), qt.DeepEquals, map[Tag]string{
			TagDocumentName: "A,1,PAGEB",
			TagMake:         "Scanner Inc.",
			TagSoftware:     "Archiver 2.1",
			TagDateTime:     "2010:11:03 10:00:00",
		})
	})

	c.Run("input not modified", func(c *qt.C) {
		c.Assert(cmp.Diff(newNormalizeInput(), dirs), qt.Equals, "")
	})

	c.Run("idempotent", func(c *qt.C) {
		again := Normalize(normalized)
		c.Assert(again, qt.HasLen, 2)
		c.Assert(asciiValues(again[1]), qt.DeepEquals, asciiValues(normalized[1]))
		c.Assert(again[1].Tags(), qt.DeepEquals, normalized[1].Tags())
	})
}

func TestNormalizePassThrough(t *testing.T) {
	c := qt.New(t)

	dirs := []*Directory{
		{Position: 8, Entries: []Entry{longEntry(10, TagImageWidth, 1)}},
		// Does not start with NewSubfileType.
		{Position: 40, Entries: []Entry{
			longEntry(42, TagImageWidth, 2),
			longEntry(54, TagNewSubfileType, 0),
		}},
		{Position: 80},
	}

	normalized := Normalize(dirs)
	c.Assert(normalized, qt.HasLen, 3)
	for i := range dirs {
		c.Assert(cmp.Diff(dirs[i], normalized[i]), qt.Equals, "")
	}
}

func TestNormalizeNoCarryTags(t *testing.T) {
	c := qt.New(t)

	dirs := []*Directory{
		{Position: 8, Entries: []Entry{
			longEntry(10, TagNewSubfileType, 0),
			asciiEntry(22, TagDocumentName, "A,1,X"),
		}},
		{Position: 40, Entries: []Entry{
			longEntry(42, TagNewSubfileType, 0),
			asciiEntry(54, TagSoftware, "Rescanner 1.0"),
		}},
	}

	normalized := Normalize(dirs)
	c.Assert(asciiValues(normalized[1]), qt.DeepEquals, map[Tag]string{
		TagDocumentName: "A,1,X",
		TagSoftware:     "Rescanner 1.0",
	})
}

func TestNormalizeEmpty(t *testing.T) {
	c := qt.New(t)

	c.Assert(Normalize(nil), qt.IsNil)

	doc := &Document{FileName: "a.tif", ByteOrder: BigEndian}
	normalized := doc.Normalize()
	c.Assert(normalized.FileName, qt.Equals, "a.tif")
	c.Assert(normalized.Directories, qt.HasLen, 0)
}

func TestNormalizeDecoded(t *testing.T) {
	c := qt.New(t)

	b := newTestContainer(BigEndian, []byte{1, 2}, []byte{3, 4}, []byte{5, 6})
	doc, err := Decode(Options{R: b.reader()})
	c.Assert(err, qt.IsNil)

	normalized := doc.Normalize()
	c.Assert(normalized.Directories, qt.HasLen, 3)
	for i, dir := range normalized.Directories[1:] {
		software, found := dir.Lookup(TagSoftware)
		c.Assert(found, qt.IsTrue)
		c.Assert(software.ASCII(), qt.Equals, "Archiver 2.1")

		name, _ := dir.Lookup(TagDocumentName)
		c.Assert(name.ASCII(), qt.Equals, "ARCHIVE,0001,PAGE"+string(rune('B'+i)))
	}
}
