// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"strings"
	"unicode"
)

func printableString(s string) string {
	ss := strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, s)

	return strings.TrimSpace(ss)
}

func trimTrailingNulls(b []byte) []byte {
	hi := len(b)
	for hi > 0 && b[hi-1] == 0 {
		hi--
	}
	return b[:hi]
}

// align rounds pos up to the next word (2 byte) boundary.
func align(pos uint32) uint32 {
	return pos + pos&1
}
