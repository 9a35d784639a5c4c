// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import "io"

// The tags and types a directory written by the archival producer starts with.
var (
	discriminatorTags = map[Tag]bool{
		TagDocumentName:   true,
		TagNewSubfileType: true,
	}
	discriminatorTypes = map[Type]bool{
		TypeASCII: true,
		TypeLong:  true,
	}
)

// recoverOffset validates a next directory offset and resynchronizes it if needed.
//
// If the first entry at offset has a discriminator tag, offset is returned as is.
// Otherwise the file is scanned forward in steps of 2 bytes for a discriminator
// tag followed by a discriminator type, and the position of the entry count
// preceding that tag is returned.
//
// The scan stops at the end of the file with errEndOfChain.
func (d *decoder) recoverOffset(offset uint32) (uint32, error) {
	if _, err := d.r.Seek(int64(offset)+entryCountSize, io.SeekStart); err != nil {
		return 0, err
	}
	test, err := d.scan2()
	if err != nil {
		return 0, err
	}
	if discriminatorTags[Tag(test)] {
		return offset, nil
	}

	for {
		for !discriminatorTags[Tag(test)] {
			if test, err = d.scan2(); err != nil {
				return 0, err
			}
		}
		typ, err := d.scan2()
		if err != nil {
			return 0, err
		}
		if discriminatorTypes[Type(typ)] {
			// Back up over the type, the tag and the entry count.
			return uint32(d.pos() - 6), nil
		}
		test = typ
	}
}

// scan2 reads the next 2 byte value without reading past the end of the file.
func (d *decoder) scan2() (uint16, error) {
	if d.pos()+2 > d.size {
		return 0, errEndOfChain
	}
	return d.read2E()
}
