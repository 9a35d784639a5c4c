// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package tiffsplit

import "fmt"

// Tag identifies a TIFF field.
type Tag uint16

// Baseline and extension tags from TIFF 6.0 that may appear in the main IFDs.
const (
	TagNewSubfileType            Tag = 0x00fe
	TagSubfileType               Tag = 0x00ff
	TagImageWidth                Tag = 0x0100
	TagImageLength               Tag = 0x0101
	TagBitsPerSample             Tag = 0x0102
	TagCompression               Tag = 0x0103
	TagPhotometricInterpretation Tag = 0x0106
	TagThreshholding             Tag = 0x0107
	TagFillOrder                 Tag = 0x010a
	TagDocumentName              Tag = 0x010d
	TagImageDescription          Tag = 0x010e
	TagMake                      Tag = 0x010f
	TagModel                     Tag = 0x0110
	TagStripOffsets              Tag = 0x0111
	TagOrientation               Tag = 0x0112
	TagSamplesPerPixel           Tag = 0x0115
	TagRowsPerStrip              Tag = 0x0116
	TagStripByteCounts           Tag = 0x0117
	TagXResolution               Tag = 0x011a
	TagYResolution               Tag = 0x011b
	TagPlanarConfiguration       Tag = 0x011c
	TagPageName                  Tag = 0x011d
	TagT4Options                 Tag = 0x0124
	TagT6Options                 Tag = 0x0125
	TagResolutionUnit            Tag = 0x0128
	TagPageNumber                Tag = 0x0129
	TagSoftware                  Tag = 0x0131
	TagDateTime                  Tag = 0x0132
	TagArtist                    Tag = 0x013b
	TagHostComputer              Tag = 0x013c
	TagPredictor                 Tag = 0x013d
	TagColorMap                  Tag = 0x0140
	TagTileWidth                 Tag = 0x0142
	TagTileLength                Tag = 0x0143
	TagTileOffsets               Tag = 0x0144
	TagTileByteCounts            Tag = 0x0145
	TagExtraSamples              Tag = 0x0152
	TagSampleFormat              Tag = 0x0153
	TagCopyright                 Tag = 0x8298
)

var tagNames = map[Tag]string{
	TagNewSubfileType:            "NewSubfileType",
	TagSubfileType:               "SubfileType",
	TagImageWidth:                "ImageWidth",
	TagImageLength:               "ImageLength",
	TagBitsPerSample:             "BitsPerSample",
	TagCompression:               "Compression",
	TagPhotometricInterpretation: "PhotometricInterpretation",
	TagThreshholding:             "Threshholding",
	TagFillOrder:                 "FillOrder",
	TagDocumentName:              "DocumentName",
	TagImageDescription:          "ImageDescription",
	TagMake:                      "Make",
	TagModel:                     "Model",
	TagStripOffsets:              "StripOffsets",
	TagOrientation:               "Orientation",
	TagSamplesPerPixel:           "SamplesPerPixel",
	TagRowsPerStrip:              "RowsPerStrip",
	TagStripByteCounts:           "StripByteCounts",
	TagXResolution:               "XResolution",
	TagYResolution:               "YResolution",
	TagPlanarConfiguration:       "PlanarConfiguration",
	TagPageName:                  "PageName",
	TagT4Options:                 "T4Options",
	TagT6Options:                 "T6Options",
	TagResolutionUnit:            "ResolutionUnit",
	TagPageNumber:                "PageNumber",
	TagSoftware:                  "Software",
	TagDateTime:                  "DateTime",
	TagArtist:                    "Artist",
	TagHostComputer:              "HostComputer",
	TagPredictor:                 "Predictor",
	TagColorMap:                  "ColorMap",
	TagTileWidth:                 "TileWidth",
	TagTileLength:                "TileLength",
	TagTileOffsets:               "TileOffsets",
	TagTileByteCounts:            "TileByteCounts",
	TagExtraSamples:              "ExtraSamples",
	TagSampleFormat:              "SampleFormat",
	TagCopyright:                 "Copyright",
}

// Name returns the TIFF name of t, or an empty string if t is not known.
func (t Tag) Name() string {
	return tagNames[t]
}

func (t Tag) String() string {
	if name := t.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("%s0x%04x", UnknownPrefix, uint16(t))
}
