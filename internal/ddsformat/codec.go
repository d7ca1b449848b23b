package ddsformat

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// EncodePixel packs c's channels into l's word, quantising each channel
// independently; a mask of 0 means that channel is absent from the layout
// and is dropped.
func EncodePixel(l Layout, c colour.Colour) uint32 {
	var word uint32
	r, g, b := c.V[0], colourOrZero(c, 1), colourOrZero(c, 2)
	a := c.A()
	if l.RMask != 0 {
		word |= Quantise(r, l.RMask)
	}
	if l.GMask != 0 {
		word |= Quantise(g, l.GMask)
	}
	if l.BMask != 0 {
		word |= Quantise(b, l.BMask)
	}
	if l.AMask != 0 {
		word |= Quantise(a, l.AMask)
	}
	return word
}

func colourOrZero(c colour.Colour, idx int) float32 {
	if idx < c.Chans {
		return c.V[idx]
	}
	return 0
}

// DecodePixel unpacks a word into a Colour whose arity matches l: colour
// channel count is the number of non-zero colour masks present (at least
// one), and alpha is present iff l.AMask != 0.
func DecodePixel(l Layout, word uint32) colour.Colour {
	chans, hasAlpha := l.shape()
	c := colour.Colour{Chans: chans, Alpha: hasAlpha}
	vals := []struct {
		mask uint32
		use  bool
	}{{l.RMask, true}, {l.GMask, l.GMask != 0}, {l.BMask, l.BMask != 0}}
	idx := 0
	for _, v := range vals {
		if !v.use {
			continue
		}
		c.V[idx] = Dequantise(word, v.mask)
		idx++
	}
	if hasAlpha {
		c.V[chans] = Dequantise(word, l.AMask)
	}
	return c
}

// shape returns the colour-channel count and alpha presence this layout's
// masks imply: R is always present; G/B add channels when non-zero.
func (l Layout) shape() (chans int, alpha bool) {
	chans = 1
	if l.GMask != 0 {
		chans++
	}
	if l.BMask != 0 {
		chans++
	}
	return chans, l.AMask != 0
}

func littleEndianBytes(word uint32, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(word >> (8 * i))
	}
	return out
}

func littleEndianWord(b []byte) uint32 {
	var word uint32
	for i, v := range b {
		word |= uint32(v) << (8 * i)
	}
	return word
}

// EncodeImage serialises img into l's raw scanline bytes, walking img's
// rows in storage order (row 0 first). It does no vertical flip; the DDS
// writer (dds.writeImage) flips the image before calling it.
func EncodeImage(img *image2d.Image2D, l Layout) ([]byte, error) {
	bpp, err := l.BytesPerPixel()
	if err != nil {
		return nil, err
	}
	out := make([]byte, img.Width*img.Height*bpp)
	off := 0
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			word := EncodePixel(l, img.At(x, y))
			copy(out[off:off+bpp], littleEndianBytes(word, bpp))
			off += bpp
		}
	}
	return out, nil
}

// DecodeImage parses raw scanline bytes in l's layout into a new Image2D
// of width x height.
func DecodeImage(data []byte, width, height int, l Layout) (*image2d.Image2D, error) {
	bpp, err := l.BytesPerPixel()
	if err != nil {
		return nil, err
	}
	if len(data) < width*height*bpp {
		return nil, ierr.ErrSizeMismatch
	}
	chans, alpha := l.shape()
	out := &image2d.Image2D{Width: width, Height: height, Chans: chans, Alpha: alpha}
	n := chans
	if alpha {
		n++
	}
	out.Pix = make([]float32, width*height*n)
	off := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			word := littleEndianWord(data[off : off+bpp])
			c := DecodePixel(l, word)
			pi := (y*width + x) * n
			copy(out.Pix[pi:pi+n], c.V[:n])
			off += bpp
		}
	}
	return out, nil
}
