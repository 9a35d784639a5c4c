// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bep/tiffsplit"
)

func printDocument(w io.Writer, doc *tiffsplit.Document) {
	fmt.Fprintf(w, "File Name: %s\n", doc.FileName)
	fmt.Fprintf(w, "File Size: %d\n", doc.FileSize)
	fmt.Fprintf(w, "Byte Order: %s\n", doc.ByteOrder)
	for i, dir := range doc.Directories {
		fmt.Fprintf(w, "IFD %d\n", i+1)
		fmt.Fprintf(w, "\tPosition: %d\n", dir.Position)
		fmt.Fprintf(w, "\tNumber of Entries: %d\n", len(dir.Entries))
		for j, e := range dir.Entries {
			fmt.Fprintf(w, "\tDirectory Entry %d\n", j)
			fmt.Fprintf(w, "\t\tOffset: %d\n", e.Position)
			fmt.Fprintf(w, "\t\tTag: %d (%s)\n", uint16(e.Tag), e.Tag)
			fmt.Fprintf(w, "\t\tType: %s\n", e.Type)
			fmt.Fprintf(w, "\t\tCount: %d\n", e.Count)
			fmt.Fprintf(w, "\t\tValue Offset: %d\n", e.ValueOffset)
			fmt.Fprintf(w, "\t\tValue: %s\n", formatValue(e, doc.ByteOrder, 20))
		}
	}
}

func formatValue(e tiffsplit.Entry, order tiffsplit.ByteOrder, limit int) string {
	if e.Value == nil {
		return "(not read)"
	}
	if e.Type == tiffsplit.TypeASCII {
		return fmt.Sprintf("%q", e.ASCII())
	}
	if vals := e.Uints(order); vals != nil {
		var sb strings.Builder
		for i, v := range vals {
			if i == limit {
				sb.WriteString(" ...")
				break
			}
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%d", v)
		}
		return sb.String()
	}
	return fmt.Sprintf("(%d bytes)", len(e.Value))
}

// Repair the directory chain of a multi-image TIFF file and split it into
// one TIFF file per image.
func main() {
	var printInfo bool
	flag.BoolVar(&printInfo, "print", false, "print the normalized directories")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-print] file outdir\n", os.Args[0])
		os.Exit(2)
	}
	input, outDir := flag.Arg(0), flag.Arg(1)

	f, err := os.Open(input)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	doc, err := tiffsplit.Decode(tiffsplit.Options{
		R:        f,
		FileName: filepath.Base(input),
		Warnf:    log.Printf,
	})
	if err != nil {
		if tiffsplit.IsInvalidFormat(err) {
			log.Fatalf("%s: not a TIFF file: %s", input, err)
		}
		log.Fatal(err)
	}
	doc = doc.Normalize()

	if printInfo {
		printDocument(os.Stdout, doc)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	filenames, err := tiffsplit.Split(doc, f, tiffsplit.SplitOptions{OutputDir: outDir, Warnf: log.Printf})
	for _, filename := range filenames {
		fmt.Println(filename)
	}
	if err != nil {
		log.Fatal(err)
	}
}
