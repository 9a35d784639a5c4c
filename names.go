// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const defaultImageName = "image"

// decodeLatin1 decodes b as ISO 8859-1 with trailing NULs removed.
func decodeLatin1(b []byte) string {
	b = trimTrailingNulls(b)
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// fileStem returns the file name without directory and extension.
func fileStem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// imageName returns the base name of the output file for dir.
//
// The producer stores a comma separated record in DocumentName;
// its third field names the image. Without it, fallback is used.
func imageName(dir *Directory, fallback string) string {
	if fallback == "" || fallback == "." {
		fallback = defaultImageName
	}
	e, found := dir.Lookup(TagDocumentName)
	if !found || e.Value == nil {
		return fallback
	}
	fields := strings.Split(e.ASCII(), ",")
	if len(fields) < 3 {
		return fallback
	}
	name := sanitizeFileName(strings.ReplaceAll(fields[2], "\x00", ""))
	if name == "" {
		return fallback
	}
	return name
}

// sanitizeFileName makes s safe to use as a single path element.
func sanitizeFileName(s string) string {
	s = printableString(strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, s))
	if s == "." || s == ".." {
		return ""
	}
	return s
}
