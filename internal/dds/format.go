package dds

import (
	"fmt"

	"github.com/grit-engine/luaimg-go/internal/bcn"
	"github.com/grit-engine/luaimg-go/internal/ddsformat"
	"github.com/grit-engine/luaimg-go/internal/ierr"
)

// Kind distinguishes the three pixel-data families a DDS file may carry.
type Kind int

const (
	KindUncompressed Kind = iota
	KindBC
	KindFloat
)

// FloatFormat names one of the unimplemented float FourCC formats.
type FloatFormat int

const (
	FloatUnknown FloatFormat = iota
	FloatR16F
	FloatG16R16F
	FloatR16G16B16A16F
	FloatR32F
	FloatG32R32F
	FloatR32G32B32A32F
)

// floatFourCC is the D3DFMT numeric FourCC range 0x6F..0x74 for the six
// float formats, in the documented catalogue order.
var floatFourCC = map[uint32]FloatFormat{
	0x6F: FloatR16F,
	0x70: FloatG16R16F,
	0x71: FloatR16G16B16A16F,
	0x72: FloatR32F,
	0x73: FloatG32R32F,
	0x74: FloatR32G32B32A32F,
}

func fourCCString(v uint32) string {
	return string([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func fourCCUint32(s string) uint32 {
	b := []byte(s)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// PixelFormatInfo is the resolved identity of a DDS pixel format.
type PixelFormatInfo struct {
	Kind    Kind
	BC      bcn.Format
	Float   FloatFormat
	Layout  ddsformat.Layout
	HasBC   bool
	HasFloat bool
}

// ResolveFormat identifies pf's pixel format, applying the reader
// documented rejection rules (DX10 already rejected in ReadHeader;
// here: unrecognised FourCC).
func ResolveFormat(pf PixelFormat) (PixelFormatInfo, error) {
	if pf.Flags&PFFourCC != 0 {
		tag := fourCCString(pf.FourCC)
		if bf := bcn.FourCC(tag); bf != bcn.FormatUnknown {
			return PixelFormatInfo{Kind: KindBC, BC: bf, HasBC: true}, nil
		}
		if ff, ok := floatFourCC[pf.FourCC]; ok {
			return PixelFormatInfo{Kind: KindFloat, Float: ff, HasFloat: true}, nil
		}
		return PixelFormatInfo{}, fmt.Errorf("%w: fourcc %q", ierr.ErrFormatUnknown, tag)
	}

	if pf.Flags&PFRGB != 0 || pf.Flags&PFLuminance != 0 {
		layout, ok := ddsformat.ByMasks(int(pf.RGBBitCount), pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask)
		if !ok {
			return PixelFormatInfo{}, fmt.Errorf("%w: unrecognised uncompressed layout", ierr.ErrFormatUnknown)
		}
		return PixelFormatInfo{Kind: KindUncompressed, Layout: layout}, nil
	}

	return PixelFormatInfo{}, fmt.Errorf("%w: no FOURCC/RGB/LUMINANCE flag", ierr.ErrFormatUnknown)
}

// PixelFormatFor builds the PixelFormat sub-header for one of the DDS
// documented format tag-set strings.
func PixelFormatFor(name string) (PixelFormat, error) {
	switch name {
	case "BC1":
		return bcFourCCPixelFormat("DXT1"), nil
	case "BC2":
		return bcFourCCPixelFormat("DXT3"), nil
	case "BC3":
		return bcFourCCPixelFormat("DXT5"), nil
	case "BC4":
		return bcFourCCPixelFormat("ATI1"), nil
	case "BC5":
		return bcFourCCPixelFormat("ATI2"), nil
	case "R16F":
		return floatPixelFormat(0x6F), nil
	case "G16R16F":
		return floatPixelFormat(0x70), nil
	case "R16G16B16A16F":
		return floatPixelFormat(0x71), nil
	case "R32F":
		return floatPixelFormat(0x72), nil
	case "G32R32F":
		return floatPixelFormat(0x73), nil
	case "R32G32B32A32F":
		return floatPixelFormat(0x74), nil
	}
	layout, ok := ddsformat.ByName(name)
	if !ok {
		return PixelFormat{}, fmt.Errorf("%w: %q", ierr.ErrFormatUnknown, name)
	}
	flags := uint32(PFRGB)
	if layout.AMask != 0 {
		flags |= PFAlphaPixels
	}
	return PixelFormat{
		Size: PixelFormatSize, Flags: flags, RGBBitCount: uint32(layout.BitsPerPixel),
		RBitMask: layout.RMask, GBitMask: layout.GMask, BBitMask: layout.BMask, ABitMask: layout.AMask,
	}, nil
}

func bcFourCCPixelFormat(tag string) PixelFormat {
	return PixelFormat{Size: PixelFormatSize, Flags: PFFourCC, FourCC: fourCCUint32(tag)}
}

func floatPixelFormat(code uint32) PixelFormat {
	return PixelFormat{Size: PixelFormatSize, Flags: PFFourCC, FourCC: code}
}
