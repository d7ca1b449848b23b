package dds

import (
	"bytes"
	"fmt"
	"io"

	"github.com/grit-engine/luaimg-go/internal/bcn"
	"github.com/grit-engine/luaimg-go/internal/ddsformat"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// Topology names one of the three DDS surface shapes.
type Topology int

const (
	TopologySimple Topology = iota
	TopologyCube
	TopologyVolume
)

// cubeFaceOrder is the canonical +X,-X,+Y,-Y,+Z,-Z ordering used both for
// on-disk layout and for the Caps2 face bits.
var cubeFaceOrder = []uint32{Caps2PosX, Caps2NegX, Caps2PosY, Caps2NegY, Caps2PosZ, Caps2NegZ}

// Surface is the in-memory representation of one DDS file's pixel payload.
// Faces holds the mip chain(s) for Simple (length 1) and Cube (length 6,
// in cubeFaceOrder); VolumeLevels holds the slice list for each mip level
// of a Volume surface instead.
type Surface struct {
	Topology     Topology
	FormatName   string
	Faces        []MipChain
	VolumeLevels []VolumeLevel
}

// MipChain is a mip chain from level 0 (largest) down.
type MipChain []*image2d.Image2D

// VolumeLevel holds one mip level's depth slices for a Volume surface.
type VolumeLevel struct {
	Slices []*image2d.Image2D
}

// NextMipDim returns max(1, d/2), the next mip level's dimension.
func NextMipDim(d int) int { return nextMipDim(d) }

func nextMipDim(d int) int {
	if d <= 1 {
		return 1
	}
	return d / 2
}

// ValidateMipChain checks that each level's dimensions equal
// max(1, prev/2) on both axes.
func ValidateMipChain(chain MipChain) error {
	for i := 1; i < len(chain); i++ {
		wantW := nextMipDim(chain[i-1].Width)
		wantH := nextMipDim(chain[i-1].Height)
		if chain[i].Width != wantW || chain[i].Height != wantH {
			return fmt.Errorf("%w: level %d is %dx%d, want %dx%d", ierr.ErrMipChainInvalid, i, chain[i].Width, chain[i].Height, wantW, wantH)
		}
	}
	return nil
}

// ValidateCubeShape checks that a cube surface has exactly six square
// faces of identical size.
func ValidateCubeShape(faces []MipChain) error {
	if len(faces) != 6 {
		return fmt.Errorf("%w: %d faces, want 6", ierr.ErrCubeShapeInvalid, len(faces))
	}
	w, h := faces[0][0].Width, faces[0][0].Height
	if w != h {
		return fmt.Errorf("%w: face is %dx%d, not square", ierr.ErrCubeShapeInvalid, w, h)
	}
	for i, f := range faces {
		if f[0].Width != w || f[0].Height != h {
			return fmt.Errorf("%w: face %d is %dx%d, want %dx%d", ierr.ErrCubeShapeInvalid, i, f[0].Width, f[0].Height, w, h)
		}
	}
	return nil
}

func pixelFormatInfoFor(name string) (PixelFormatInfo, PixelFormat, error) {
	pf, err := PixelFormatFor(name)
	if err != nil {
		return PixelFormatInfo{}, PixelFormat{}, err
	}
	info, err := ResolveFormat(pf)
	if err != nil {
		return PixelFormatInfo{}, PixelFormat{}, err
	}
	return info, pf, nil
}

func blockBytesFor(bf bcn.Format) int { return bf.BlockSize() }

func pitchOrLinearSize(info PixelFormatInfo, width, height int) uint32 {
	switch info.Kind {
	case KindBC:
		bw := (width + 3) / 4
		bh := (height + 3) / 4
		return uint32(bw * bh * blockBytesFor(info.BC))
	case KindFloat:
		return 0
	default:
		bpp := info.Layout.BitsPerPixel
		return uint32((width*bpp + 7) / 8)
	}
}

// Encode writes s to w as a complete DDS file.
func Encode(w io.Writer, s *Surface) error {
	info, pf, err := pixelFormatInfoFor(s.FormatName)
	if err != nil {
		return err
	}
	if info.Kind == KindFloat {
		return fmt.Errorf("%w: encoding float format %s is not implemented", ierr.ErrUnsupportedHeader, s.FormatName)
	}

	var width, height, depth, mipCount int
	switch s.Topology {
	case TopologySimple:
		width, height = s.Faces[0][0].Width, s.Faces[0][0].Height
		mipCount = len(s.Faces[0])
		if err := ValidateMipChain(s.Faces[0]); err != nil {
			return err
		}
	case TopologyCube:
		if err := ValidateCubeShape(s.Faces); err != nil {
			return err
		}
		for _, f := range s.Faces {
			if err := ValidateMipChain(f); err != nil {
				return err
			}
		}
		width, height = s.Faces[0][0].Width, s.Faces[0][0].Height
		mipCount = len(s.Faces[0])
	case TopologyVolume:
		width, height = s.VolumeLevels[0].Slices[0].Width, s.VolumeLevels[0].Slices[0].Height
		depth = len(s.VolumeLevels[0].Slices)
		mipCount = len(s.VolumeLevels)
	}

	h := BuildHeader(pf, info, s.Topology, width, height, depth, mipCount)

	if err := WriteMagic(w); err != nil {
		return err
	}
	if err := WriteHeader(w, h); err != nil {
		return err
	}

	switch s.Topology {
	case TopologySimple:
		for _, img := range s.Faces[0] {
			if err := writeImage(w, img, info); err != nil {
				return err
			}
		}
	case TopologyCube:
		for _, chain := range s.Faces {
			for _, img := range chain {
				if err := writeImage(w, img, info); err != nil {
					return err
				}
			}
		}
	case TopologyVolume:
		for _, lvl := range s.VolumeLevels {
			for _, img := range lvl.Slices {
				if err := writeImage(w, img, info); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// BuildHeader assembles the DDS_HEADER for a surface of the given
// topology, resolved pixel format, and dimensions, per the documented
// flags/caps/caps2 assembly rules. Shared by Encode and internal/edds,
// which wraps the same header around LZ4-chunked mip payloads instead of
// raw ones.
func BuildHeader(pf PixelFormat, info PixelFormatInfo, topology Topology, width, height, depth, mipCount int) *Header {
	flags := uint32(headerCaps | headerHeight | headerWidth | headerPixelFormat)
	if mipCount > 1 {
		flags |= headerMipMapCount
	}
	if info.Kind == KindBC {
		flags |= headerLinearSize
	} else {
		flags |= headerPitch
	}
	caps := uint32(CapsTexture)
	if mipCount > 1 {
		caps |= CapsMipMap | CapsComplex
	}
	caps2 := uint32(0)
	switch topology {
	case TopologyCube:
		caps2 = Caps2Cubemap | Caps2AllFaces
		caps |= CapsComplex
	case TopologyVolume:
		caps2 = Caps2Volume
		flags |= headerDepth
	}

	return &Header{
		Size: HeaderSize, Flags: flags, Height: uint32(height), Width: uint32(width),
		PitchOrLinearSize: pitchOrLinearSize(info, width, height), Depth: uint32(depth),
		MipMapCount: uint32(mipCount), PixelFormat: pf, Caps: caps, Caps2: caps2,
	}
}

// EncodeMip encodes a single mip level's pixels (without any header) for
// the resolved pixel format info, applying the top-down row flip.
func EncodeMip(img *image2d.Image2D, info PixelFormatInfo) ([]byte, error) {
	return encodeMipBytes(img, info)
}

// DecodeMip decodes a single mip level's pixels (without any header) for
// the resolved pixel format info, applying the top-down row flip back.
func DecodeMip(data []byte, width, height int, info PixelFormatInfo) (*image2d.Image2D, error) {
	return readImage(bytes.NewReader(data), width, height, info)
}

// MipDataLength returns the encoded byte length of one mip level of the
// given pixel format and dimensions.
func MipDataLength(info PixelFormatInfo, width, height int) (int, error) {
	if info.Kind == KindBC {
		return bcn.ExpectedDataLength(info.BC, width, height), nil
	}
	bpp, err := info.Layout.BytesPerPixel()
	if err != nil {
		return 0, err
	}
	return width * height * bpp, nil
}

func encodeMipBytes(img *image2d.Image2D, info PixelFormatInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeImage(&buf, img, info); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeImage(w io.Writer, img *image2d.Image2D, info PixelFormatInfo) error {
	flipped := img.Flip()
	var data []byte
	var err error
	switch info.Kind {
	case KindBC:
		switch info.BC {
		case bcn.FormatBC1:
			data, err = bcn.EncodeBC1(flipped)
		case bcn.FormatBC2:
			data, err = bcn.EncodeBC2(flipped)
		case bcn.FormatBC3:
			data, err = bcn.EncodeBC3(flipped)
		case bcn.FormatBC4:
			data, err = bcn.EncodeBC4(flipped)
		case bcn.FormatBC5:
			data, err = bcn.EncodeBC5(flipped)
		default:
			return fmt.Errorf("%w: unsupported BC format", ierr.ErrUnsupportedHeader)
		}
	default:
		data, err = ddsformat.EncodeImage(flipped, info.Layout)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func readImage(r io.Reader, width, height int, info PixelFormatInfo) (*image2d.Image2D, error) {
	var size int
	if info.Kind == KindBC {
		size = bcn.ExpectedDataLength(info.BC, width, height)
	} else {
		bpp, err := info.Layout.BytesPerPixel()
		if err != nil {
			return nil, err
		}
		size = width * height * bpp
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading surface data: %w", err)
	}

	var img *image2d.Image2D
	var err error
	switch info.Kind {
	case KindBC:
		switch info.BC {
		case bcn.FormatBC1:
			img, err = bcn.DecodeBC1(buf, width, height, false)
		case bcn.FormatBC2:
			img, err = bcn.DecodeBC2(buf, width, height)
		case bcn.FormatBC3:
			img, err = bcn.DecodeBC3(buf, width, height)
		case bcn.FormatBC4:
			img, err = bcn.DecodeBC4(buf, width, height)
		case bcn.FormatBC5:
			img, err = bcn.DecodeBC5(buf, width, height)
		default:
			return nil, fmt.Errorf("%w: unsupported BC format", ierr.ErrUnsupportedHeader)
		}
	default:
		img, err = ddsformat.DecodeImage(buf, width, height, info.Layout)
	}
	if err != nil {
		return nil, err
	}
	return img.Flip(), nil
}

// Decode reads a complete DDS file from r.
func Decode(r io.Reader) (*Surface, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	info, err := ResolveFormat(h.PixelFormat)
	if err != nil {
		return nil, err
	}
	if info.Kind == KindFloat {
		return nil, fmt.Errorf("%w: float format decode not implemented", ierr.ErrUnsupportedHeader)
	}

	mipCount := int(h.MipMapCount)
	if mipCount == 0 {
		mipCount = 1
	}
	width, height := int(h.Width), int(h.Height)

	s := &Surface{FormatName: FormatNameFor(info)}

	switch {
	case h.Caps2&Caps2Volume != 0:
		s.Topology = TopologyVolume
		depth := int(h.Depth)
		if depth == 0 {
			depth = 1
		}
		w, ht, d := width, height, depth
		for level := 0; level < mipCount; level++ {
			lvl := VolumeLevel{}
			for i := 0; i < d; i++ {
				img, err := readImage(r, w, ht, info)
				if err != nil {
					return nil, err
				}
				lvl.Slices = append(lvl.Slices, img)
			}
			s.VolumeLevels = append(s.VolumeLevels, lvl)
			w, ht, d = nextMipDim(w), nextMipDim(ht), nextMipDim(d)
		}
	case h.Caps2&Caps2Cubemap != 0:
		s.Topology = TopologyCube
		for range cubeFaceOrder {
			chain, err := readMipChain(r, width, height, mipCount, info)
			if err != nil {
				return nil, err
			}
			s.Faces = append(s.Faces, chain)
		}
	default:
		s.Topology = TopologySimple
		chain, err := readMipChain(r, width, height, mipCount, info)
		if err != nil {
			return nil, err
		}
		s.Faces = append(s.Faces, chain)
	}

	return s, nil
}

func readMipChain(r io.Reader, width, height, mipCount int, info PixelFormatInfo) (MipChain, error) {
	chain := make(MipChain, 0, mipCount)
	w, h := width, height
	for level := 0; level < mipCount; level++ {
		img, err := readImage(r, w, h, info)
		if err != nil {
			return nil, err
		}
		chain = append(chain, img)
		w, h = nextMipDim(w), nextMipDim(h)
	}
	return chain, nil
}

// FormatNameFor returns the documented format tag-set string for a
// resolved PixelFormatInfo.
func FormatNameFor(info PixelFormatInfo) string {
	switch info.Kind {
	case KindBC:
		switch info.BC {
		case bcn.FormatBC1:
			return "BC1"
		case bcn.FormatBC2:
			return "BC2"
		case bcn.FormatBC3:
			return "BC3"
		case bcn.FormatBC4:
			return "BC4"
		case bcn.FormatBC5:
			return "BC5"
		}
	case KindUncompressed:
		switch info.Layout.Tag {
		case ddsformat.TagR5G6B5:
			return "R5G6B5"
		case ddsformat.TagR8G8B8:
			return "R8G8B8"
		case ddsformat.TagA8R8G8B8:
			return "A8R8G8B8"
		case ddsformat.TagA2R10G10B10:
			return "A2R10G10B10"
		case ddsformat.TagA1R5G5B5:
			return "A1R5G5B5"
		case ddsformat.TagR8:
			return "R8"
		case ddsformat.TagR16:
			return "R16"
		case ddsformat.TagG16R16:
			return "G16R16"
		case ddsformat.TagA8R8:
			return "A8R8"
		case ddsformat.TagA4R4:
			return "A4R4"
		case ddsformat.TagA16R16:
			return "A16R16"
		case ddsformat.TagR3G3B2:
			return "R3G3B2"
		case ddsformat.TagA4R4G4B4:
			return "A4R4G4B4"
		}
	}
	return "UNKNOWN"
}

// EncodeBytes is a convenience wrapper returning the encoded file bytes.
func EncodeBytes(s *Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
