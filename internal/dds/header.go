// Package dds implements the DDS texture container format: the
// 124-byte header plus 32-byte pixel-format sub-header, Simple/Cube/Volume
// surface topologies, and mip-chain (dis)assembly. Grounded on the
// imageset-packer's internal/dds (header/read/write) and internal/edds (which
// builds on the same header), generalised from imageset-packer's single
// RGBA8-only path to the full uncompressed/BCn/float format set.
package dds

const (
	Magic = "DDS "

	HeaderSize      = 124
	PixelFormatSize = 32

	headerCaps        = 0x1
	headerHeight      = 0x2
	headerWidth       = 0x4
	headerPitch       = 0x8
	headerPixelFormat = 0x1000
	headerMipMapCount = 0x20000
	headerLinearSize  = 0x80000
	headerDepth       = 0x800000

	PFAlphaPixels = 0x1
	PFFourCC      = 0x4
	PFRGB         = 0x40
	PFLuminance   = 0x20000

	CapsComplex = 0x8
	CapsTexture = 0x1000
	CapsMipMap  = 0x400000

	Caps2Cubemap = 0x200
	Caps2PosX    = 0x400
	Caps2NegX    = 0x800
	Caps2PosY    = 0x1000
	Caps2NegY    = 0x2000
	Caps2PosZ    = 0x4000
	Caps2NegZ    = 0x8000
	Caps2Volume  = 0x200000

	Caps2AllFaces = Caps2PosX | Caps2NegX | Caps2PosY | Caps2NegY | Caps2PosZ | Caps2NegZ

	FourCCDX10 = 0x30315844 // "DX10"
)

// PixelFormat is the DDS_PIXELFORMAT sub-header.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is the DDS_HEADER structure.
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// HeaderDx10 is the DDS_HEADER_DXT10 extension, recognised on read only to
// reject it (see ierr.ErrUnsupportedHeader).
type HeaderDx10 struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}
