// Package image2d implements Image2D<C,A>: a width x height grid of
// Colour values, row-major with top-left origin. (C,A) are carried as
// runtime tags on Image2D itself, which also serves as the type-erased
// ImageRef handle (see DESIGN.md).
package image2d

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/sample"
)

// Image2D is a row-major, top-left-origin raster of Colour values sharing
// one (Chans, Alpha) shape for the lifetime of the image.
type Image2D struct {
	Width, Height int
	Chans         int
	Alpha         bool
	Pix           []sample.Sample // row-major, channel-interleaved, len = Width*Height*Total()
}

// Total returns the per-pixel sample count, Chans+alpha.
func (img *Image2D) Total() int {
	if img.Alpha {
		return img.Chans + 1
	}
	return img.Chans
}

// Channels reports the colour channel count (capability probe).
func (img *Image2D) Channels() int { return img.Chans }

// HasAlpha reports alpha presence (capability probe).
func (img *Image2D) HasAlpha() bool { return img.Alpha }

// InBounds reports whether (x,y) is a valid pixel coordinate.
func (img *Image2D) InBounds(x, y int) bool {
	return x >= 0 && x < img.Width && y >= 0 && y < img.Height
}

func (img *Image2D) offset(x, y int) int {
	return (y*img.Width + x) * img.Total()
}

// At returns the pixel at (x,y). Panics (via index out of range) if the
// coordinate is invalid; callers that need a checked variant use TryAt.
func (img *Image2D) At(x, y int) colour.Colour {
	off := img.offset(x, y)
	c := colour.Colour{Chans: img.Chans, Alpha: img.Alpha}
	n := img.Total()
	copy(c.V[:n], img.Pix[off:off+n])
	return c
}

// TryAt returns the pixel at (x,y), or ErrIndexOutOfRange if out of bounds.
func (img *Image2D) TryAt(x, y int) (colour.Colour, error) {
	if !img.InBounds(x, y) {
		return colour.Colour{}, ierr.ErrIndexOutOfRange
	}
	return img.At(x, y), nil
}

// Set writes the pixel at (x,y). The colour must match the image's shape.
func (img *Image2D) Set(x, y int, c colour.Colour) error {
	if !img.InBounds(x, y) {
		return ierr.ErrIndexOutOfRange
	}
	if c.Chans != img.Chans || c.Alpha != img.Alpha {
		return ierr.ErrChannelMismatch
	}
	off := img.offset(x, y)
	n := img.Total()
	copy(img.Pix[off:off+n], c.V[:n])
	return nil
}

// New allocates a chans/alpha image of the given size, filled with init.
func New(width, height, chans int, alpha bool, init colour.Colour) *Image2D {
	img := &Image2D{Width: width, Height: height, Chans: chans, Alpha: alpha}
	n := img.Total()
	img.Pix = make([]sample.Sample, width*height*n)
	for i := 0; i < width*height; i++ {
		copy(img.Pix[i*n:i*n+n], init.V[:n])
	}
	return img
}

// NewFromFn allocates a chans/alpha image whose pixels are produced by fn.
func NewFromFn(width, height, chans int, alpha bool, fn func(x, y int) colour.Colour) *Image2D {
	img := &Image2D{Width: width, Height: height, Chans: chans, Alpha: alpha}
	n := img.Total()
	img.Pix = make([]sample.Sample, width*height*n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := fn(x, y)
			off := img.offset(x, y)
			copy(img.Pix[off:off+n], c.V[:n])
		}
	}
	return img
}

// Clone returns a deep copy of img.
func (img *Image2D) Clone() *Image2D {
	out := &Image2D{Width: img.Width, Height: img.Height, Chans: img.Chans, Alpha: img.Alpha}
	out.Pix = make([]sample.Sample, len(img.Pix))
	copy(out.Pix, img.Pix)
	return out
}

// ForEach performs a row-major, side-effecting traversal of img's pixels.
func (img *Image2D) ForEach(fn func(x, y int, c colour.Colour)) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			fn(x, y, img.At(x, y))
		}
	}
}

// Flip mirrors img vertically (top-bottom).
func (img *Image2D) Flip() *Image2D {
	return NewFromFn(img.Width, img.Height, img.Chans, img.Alpha, func(x, y int) colour.Colour {
		return img.At(x, img.Height-1-y)
	})
}

// Mirror mirrors img horizontally (left-right).
func (img *Image2D) Mirror() *Image2D {
	return NewFromFn(img.Width, img.Height, img.Chans, img.Alpha, func(x, y int) colour.Colour {
		return img.At(img.Width-1-x, y)
	})
}

// AtOrFill samples (x,y), returning fill if out of bounds. If fill is nil,
// an infinite-transparent sample (all-zero, matching img's shape) is used.
func (img *Image2D) AtOrFill(x, y int, fill *colour.Colour) colour.Colour {
	if img.InBounds(x, y) {
		return img.At(x, y)
	}
	if fill != nil {
		return *fill
	}
	return colour.Colour{Chans: img.Chans, Alpha: img.Alpha}
}


// Crop extracts a w x h region with its origin at (left, bottom), used
// directly as the source-row offset (no vertical flip). Out-of-bounds
// pixels take fill if provided, else an infinite-transparent source is
// assumed.
func (img *Image2D) Crop(left, bottom, w, h int, fill *colour.Colour) *Image2D {
	return NewFromFn(w, h, img.Chans, img.Alpha, func(x, y int) colour.Colour {
		return img.AtOrFill(left+x, bottom+y, fill)
	})
}

// CropCentre crops a w x h region centred on img.
func (img *Image2D) CropCentre(w, h int, fill *colour.Colour) *Image2D {
	left := (img.Width - w) / 2
	bottom := (img.Height - h) / 2
	return img.Crop(left, bottom, w, h, fill)
}

// BoxDownsample halves width and height (clamped at 1) by averaging each
// 2x2 (or edge-clamped smaller) block of source pixels. Grounded on
// imageset-packer's internal/edds.resizeToHalf box filter, generalised to
// float Colour. No codec in this repository calls it; DDS and EDDS writers
// encode whatever mip chain the caller supplies.
func (img *Image2D) BoxDownsample() *Image2D {
	dw := max(1, img.Width/2)
	dh := max(1, img.Height/2)
	n := img.Total()

	clampX := func(x int) int {
		if x >= img.Width {
			return img.Width - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y >= img.Height {
			return img.Height - 1
		}
		return y
	}

	return NewFromFn(dw, dh, img.Chans, img.Alpha, func(x, y int) colour.Colour {
		sx, sy := x*2, y*2
		p0 := img.At(clampX(sx), clampY(sy))
		p1 := img.At(clampX(sx+1), clampY(sy))
		p2 := img.At(clampX(sx), clampY(sy+1))
		p3 := img.At(clampX(sx+1), clampY(sy+1))
		out := colour.Colour{Chans: img.Chans, Alpha: img.Alpha}
		for c := 0; c < n; c++ {
			out.V[c] = (p0.V[c] + p1.V[c] + p2.V[c] + p3.V[c]) / 4
		}
		return out
	})
}
