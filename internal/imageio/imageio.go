// Package imageio bridges the external stdlib/x/image/tga "generic image
// loader" world (image.Image) with this repo's own float Image2D data
// model, and dispatches save/load by file extension to either that
// generic loader or this repo's native .dds/.sfi/.edds codecs. Grounded
// on imageset-packer's internal/imageio/{read,write,formats,colorkey}.go
// extension switch and colour-key/hex-parsing helpers, generalised from
// imageset-packer's uint8 image.Image-only pipeline to also cover the
// native float codecs directly (bypassing image.Image, which cannot
// represent this repo's arbitrary channel arities or float precision).
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/schwarzlichtbezirk/tga"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/dds"
	"github.com/grit-engine/luaimg-go/internal/edds"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/sfi"
)

// RGB is an 8-bit-per-channel colour used for colour-keying.
type RGB struct{ R, G, B uint8 }

// ParseHexRGB parses a 6-digit hex RGB string, with or without a
// leading '#'.
func ParseHexRGB(s string) (RGB, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("expected 6 hex chars, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, err
	}
	return RGB{
		R: uint8(v >> 16 & 0xff),
		G: uint8(v >> 8 & 0xff),
		B: uint8(v & 0xff),
	}, nil
}

// ApplyColorKey sets the alpha channel of every pixel matching key to 0,
// synthesizing an alpha channel if img has none.
func ApplyColorKey(img *image2d.Image2D, key RGB) *image2d.Image2D {
	kr, kg, kb := float32(key.R)/255, float32(key.G)/255, float32(key.B)/255
	out := image2d.NewFromFn(img.Width, img.Height, img.Chans, true, func(x, y int) colour.Colour {
		c := img.At(x, y)
		a := c.A()
		if img.Chans >= 3 && nearly(c.V[0], kr) && nearly(c.V[1], kg) && nearly(c.V[2], kb) {
			a = 0
		}
		v := make([]float32, img.Chans+1)
		copy(v, c.V[:img.Chans])
		v[img.Chans] = a
		return colour.New(img.Chans, true, v...)
	})
	return out
}

func nearly(a, b float32) bool {
	const eps = 1.0 / 512
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Load reads an image file, dispatching by extension: .dds/.sfi/.edds
// go through this repo's native float codecs; everything else is
// decoded as image.Image and mapped into Image2D per the
// loader shape rules.
func Load(path string) (*image2d.Image2D, error) {
	switch ext(path) {
	case "dds":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		surface, err := dds.Decode(f)
		if err != nil {
			return nil, err
		}
		return baseLevel(surface)

	case "edds":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		surface, err := edds.Decode(f)
		if err != nil {
			return nil, err
		}
		return baseLevel(surface)

	case "sfi":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		return sfi.Decode(f)

	case "png", "bmp", "tga", "tiff":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", path, err)
		}
		return FromImage(img)

	default:
		return nil, fmt.Errorf("%w: unsupported input format %q", ierr.ErrFormatUnknown, ext(path))
	}
}

func baseLevel(s *dds.Surface) (*image2d.Image2D, error) {
	switch s.Topology {
	case dds.TopologySimple:
		return s.Faces[0][0], nil
	case dds.TopologyCube:
		return s.Faces[0][0], nil
	case dds.TopologyVolume:
		return s.VolumeLevels[0].Slices[0], nil
	default:
		return nil, fmt.Errorf("%w: unknown surface topology", ierr.ErrFormatUnknown)
	}
}

// Save writes img to path, dispatching by extension. .dds/.sfi/.edds
// use this repo's native codecs with a single-level Simple surface
// (no mip chain); format is required for .dds/.edds via formatName.
func Save(path string, img *image2d.Image2D, formatName string) error {
	switch ext(path) {
	case "dds":
		s := &dds.Surface{Topology: dds.TopologySimple, FormatName: formatName, Faces: []dds.MipChain{{img}}}
		return writeAtomic(path, func(w *bytes.Buffer) error { return dds.Encode(w, s) })

	case "edds":
		s := &dds.Surface{Topology: dds.TopologySimple, FormatName: formatName, Faces: []dds.MipChain{{img}}}
		return writeAtomic(path, func(w *bytes.Buffer) error { return edds.Encode(w, s) })

	case "sfi":
		return writeAtomic(path, func(w *bytes.Buffer) error { return sfi.Encode(w, img) })

	case "png":
		if err := requireSaveable(img); err != nil {
			return err
		}
		return writeAtomic(path, func(w *bytes.Buffer) error { return png.Encode(w, ToImage(img)) })

	case "bmp":
		if err := requireSaveable(img); err != nil {
			return err
		}
		return writeAtomic(path, func(w *bytes.Buffer) error { return bmp.Encode(w, ToImage(img)) })

	case "tga":
		if err := requireSaveable(img); err != nil {
			return err
		}
		return writeAtomic(path, func(w *bytes.Buffer) error { return tga.Encode(w, ToImage(img)) })

	case "tiff":
		if err := requireSaveable(img); err != nil {
			return err
		}
		return writeAtomic(path, func(w *bytes.Buffer) error {
			return tiff.Encode(w, ToImage(img), &tiff.Options{Compression: tiff.Deflate})
		})

	default:
		return fmt.Errorf("%w: unsupported output format %q", ierr.ErrFormatUnknown, ext(path))
	}
}

func requireSaveable(img *image2d.Image2D) error {
	if img.Chans < 1 || img.Chans > 4 {
		return fmt.Errorf("%w: %d channels, delegate codecs need 1-4", ierr.ErrChannelMismatch, img.Chans)
	}
	return nil
}

func writeAtomic(path string, encode func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing temp file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", tmp, path, err)
	}
	return nil
}

// FromImage maps a decoded image.Image into an Image2D by its concrete
// type: 8-bit Gray maps to (1,0); Gray16 (matching the original loader's
// packed-RGB "16-bit bitmap" notion) to (3,0); Paletted to (3,0);
// RGBA64/NRGBA64/CMYK are rejected; every other type maps to (3,1).
// There is no separate 24-bit case: an opaque RGB source decodes to an
// RGBA-family type and maps to (3,1) like a 32-bit one.
func FromImage(img image.Image) (*image2d.Image2D, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Dispatch on the concrete decoded type rather than comparing
	// color.Model values: color.Model implementations are funcs, and
	// func-valued interface comparisons panic at runtime.
	switch img.(type) {
	case *image.Gray:
		return image2d.NewFromFn(w, h, 1, false, func(x, y int) colour.Colour {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			return colour.Gray(float32(c.Y) / 255)
		}), nil

	case *image.Gray16:
		return image2d.NewFromFn(w, h, 3, false, func(x, y int) colour.Colour {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			v := float32(c.Y) / 65535
			return colour.RGB(v, v, v)
		}), nil

	case *image.Paletted:
		return image2d.NewFromFn(w, h, 3, false, func(x, y int) colour.Colour {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			return colour.RGB(float32(r)/65535, float32(g)/65535, float32(bl)/65535)
		}), nil

	case *image.RGBA64, *image.NRGBA64, *image.CMYK:
		return nil, fmt.Errorf("%w: higher-precision colour model not supported", ierr.ErrUnsupportedHeader)

	default:
		return image2d.NewFromFn(w, h, 3, true, func(x, y int) colour.Colour {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			return colour.RGBA(float32(r)/65535, float32(g)/65535, float32(bl)/65535, float32(a)/65535)
		}), nil
	}
}

// ToImage converts img to an *image.NRGBA suitable for stdlib/x/image
// encoders. Colour channels beyond 3 are dropped; missing alpha is
// treated as opaque.
func ToImage(img *image2d.Image2D) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			var r, g, bl float32
			switch img.Chans {
			case 1:
				r, g, bl = c.V[0], c.V[0], c.V[0]
			case 2:
				r, g, bl = c.V[0], c.V[1], 0
			default:
				r, g, bl = c.V[0], c.V[1], c.V[2]
			}
			a := c.A()
			i := out.PixOffset(x, y)
			out.Pix[i] = toByte(r)
			out.Pix[i+1] = toByte(g)
			out.Pix[i+2] = toByte(bl)
			out.Pix[i+3] = toByte(a)
		}
	}
	return out
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
