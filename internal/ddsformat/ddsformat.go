// Package ddsformat is the catalogue of uncompressed DDS pixel layouts
// (masks, bits-per-pixel) and the quantise/dequantise helpers that convert
// between them and float Colour samples, grounded on imageset-packer's
// internal/dds header/format constants and generalised from its single
// RGBA8 layout to the full masked-word catalogue.
package ddsformat

import "github.com/grit-engine/luaimg-go/internal/ierr"

// Tag names one of the uncompressed pixel layouts.
type Tag int

const (
	TagUnknown Tag = iota
	TagR5G6B5
	TagR8G8B8
	TagA8R8G8B8
	TagA2R10G10B10
	TagA1R5G5B5
	TagR8
	TagR16
	TagG16R16
	TagA8R8
	TagA4R4
	TagA16R16
	TagR3G3B2
	TagA4R4G4B4
)

// Layout describes one uncompressed DDS pixel format's bit pattern.
type Layout struct {
	Tag               Tag
	BitsPerPixel      int
	RMask, GMask, BMask, AMask uint32
}

// Catalogue is the normative table of DDS pixel layouts, in the documented
// order. R5G6B5's R mask is 0xF800; an older emission path used 0x4800,
// which is a documented bug fixed in the current path (see DESIGN.md).
var Catalogue = []Layout{
	{TagR5G6B5, 16, 0xF800, 0x07E0, 0x001F, 0},
	{TagR8G8B8, 24, 0xFF0000, 0x00FF00, 0x0000FF, 0},
	{TagA8R8G8B8, 32, 0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000},
	{TagA2R10G10B10, 32, 0x3FF00000, 0x000FFC00, 0x000003FF, 0xC0000000},
	{TagA1R5G5B5, 16, 0x7C00, 0x03E0, 0x001F, 0x8000},
	{TagR8, 8, 0xFF, 0, 0, 0},
	{TagR16, 16, 0xFFFF, 0, 0, 0},
	{TagG16R16, 32, 0xFFFF0000, 0x0000FFFF, 0, 0},
	{TagA8R8, 16, 0x00FF, 0, 0, 0xFF00},
	{TagA4R4, 8, 0x0F, 0, 0, 0xF0},
	{TagA16R16, 32, 0x0000FFFF, 0, 0, 0xFFFF0000},
	{TagR3G3B2, 8, 0xE0, 0x1C, 0x03, 0},
	{TagA4R4G4B4, 16, 0x0F00, 0x00F0, 0x000F, 0xF000},
}

// ByName resolves one of the DDS format tag strings in Catalogue.
func ByName(name string) (Layout, bool) {
	names := map[string]Tag{
		"R5G6B5": TagR5G6B5, "R8G8B8": TagR8G8B8, "A8R8G8B8": TagA8R8G8B8,
		"A2R10G10B10": TagA2R10G10B10, "A1R5G5B5": TagA1R5G5B5, "R8": TagR8,
		"R16": TagR16, "G16R16": TagG16R16, "A8R8": TagA8R8, "A4R4": TagA4R4,
		"A16R16": TagA16R16, "R3G3B2": TagR3G3B2, "A4R4G4B4": TagA4R4G4B4,
	}
	tag, ok := names[name]
	if !ok {
		return Layout{}, false
	}
	for _, l := range Catalogue {
		if l.Tag == tag {
			return l, true
		}
	}
	return Layout{}, false
}

// ByMasks resolves a Layout from an RGB-flag pixel format's masks and bit
// count, as read from a DDS file. Returns TagUnknown if no catalogue entry
// matches exactly.
func ByMasks(bpp int, r, g, b, a uint32) (Layout, bool) {
	for _, l := range Catalogue {
		if l.BitsPerPixel == bpp && l.RMask == r && l.GMask == g && l.BMask == b && l.AMask == a {
			return l, true
		}
	}
	return Layout{}, false
}

func maskShift(mask uint32) uint {
	if mask == 0 {
		return 0
	}
	shift := uint(0)
	for mask&1 == 0 {
		mask >>= 1
		shift++
	}
	return shift
}

// channelValue extracts the sub-value of word selected by mask, right
// shifted, so it ranges 0..mask>>shift.
func channelValue(word, mask uint32) uint32 {
	return (word & mask) >> maskShift(mask)
}

// Dequantise decodes one channel's float sample from a packed word as
// (word&mask)/mask, both shifted down to bit 0. A zero mask yields 0;
// DecodePixel only passes masks the layout carries.
func Dequantise(word, mask uint32) float32 {
	if mask == 0 {
		return 0
	}
	maxVal := mask >> maskShift(mask)
	return float32(channelValue(word, mask)) / float32(maxVal)
}

// Quantise encodes a [0,1]-clamped float sample into its mask's bit
// position within a packed word, rounding half up.
func Quantise(v float32, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	maxVal := mask >> maskShift(mask)
	q := uint32(v*float32(maxVal) + 0.5)
	return q << maskShift(mask)
}

// BytesPerPixel returns l.BitsPerPixel/8, or an error if not byte-aligned.
func (l Layout) BytesPerPixel() (int, error) {
	if l.BitsPerPixel%8 != 0 {
		return 0, ierr.ErrFormatUnknown
	}
	return l.BitsPerPixel / 8, nil
}
