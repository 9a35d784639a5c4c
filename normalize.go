// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"cmp"
	"slices"
)

type carrySlot int

const (
	carryImageDescription carrySlot = iota
	carryMake
	carrySoftware
	carryDateTime

	numCarrySlots
)

// Descriptive tags taken from the first directory and carried into continuation pages.
var carryTags = map[Tag]carrySlot{
	TagImageDescription: carryImageDescription,
	TagMake:             carryMake,
	TagSoftware:         carrySoftware,
	TagDateTime:         carryDateTime,
}

type carrySet struct {
	entries [numCarrySlots]Entry
	found   [numCarrySlots]bool
}

func newCarrySet(first *Directory) *carrySet {
	c := &carrySet{}
	for _, e := range first.Entries {
		if slot, ok := carryTags[e.Tag]; ok {
			c.entries[slot] = e
			c.found[slot] = true
		}
	}
	return c
}

func (c *carrySet) lookup(tag Tag) (Entry, bool) {
	slot, ok := carryTags[tag]
	if !ok || !c.found[slot] {
		return Entry{}, false
	}
	return c.entries[slot], true
}

// merge combines the entries of prev and cur, one entry per tag,
// sorted by tag. Entries in cur replace those in prev, carried entries replace both.
func (c *carrySet) merge(prev, cur *Directory) *Directory {
	byTag := make(map[Tag]Entry, len(prev.Entries)+len(cur.Entries))
	for _, dir := range []*Directory{prev, cur} {
		for _, e := range dir.Entries {
			if carried, ok := c.lookup(e.Tag); ok {
				e = carried
			}
			byTag[e.Tag] = e
		}
	}

	entries := make([]Entry, 0, len(byTag))
	for _, e := range byTag {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Tag, b.Tag)
	})

	return &Directory{Position: prev.Position, Entries: entries}
}

// Normalize returns one directory per directory in dirs, ready for splitting.
//
// The first directory is returned as is. A later directory that starts with a
// NewSubfileType entry is a continuation page: it is merged with the directory
// before it, and the ImageDescription, Make, Software and DateTime entries of
// the first directory, where present, replace any others. Other directories
// are returned as is.
//
// The input directories are not modified.
func Normalize(dirs []*Directory) []*Directory {
	if len(dirs) == 0 {
		return nil
	}

	carry := newCarrySet(dirs[0])
	normalized := make([]*Directory, len(dirs))
	normalized[0] = dirs[0].clone()

	for i := 1; i < len(dirs); i++ {
		cur := dirs[i]
		if len(cur.Entries) == 0 || cur.Entries[0].Tag != TagNewSubfileType {
			normalized[i] = cur.clone()
			continue
		}
		normalized[i] = carry.merge(dirs[i-1], cur)
	}

	return normalized
}
