// Package sfi implements a raw float sample container format: a
// trivial lossless little-endian serialisation of an Image2D, used where
// DDS's quantised formats would lose precision in round-trip testing.
// Layout grounded on imageset-packer's edds chunk header style (fixed binary
// prefix read field-by-field with encoding/binary), retargeted to the
// sfi.cpp wire format.
package sfi

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

const (
	alphaMarkerYes = 'A'
	alphaMarkerNo  = 'a'
)

// Encode writes img to w as width(u32)|height(u32)|channels(u8)|
// alpha_marker(byte)|samples(f32 x w*h*c), row-major channel-interleaved,
// origin top-left.
func Encode(w io.Writer, img *image2d.Image2D) error {
	var header [10]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(img.Width))
	binary.LittleEndian.PutUint32(header[4:8], uint32(img.Height))
	header[8] = byte(img.Chans)
	if img.Alpha {
		header[9] = alphaMarkerYes
	} else {
		header[9] = alphaMarkerNo
	}
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing sfi header: %w", err)
	}

	stride := img.Chans
	if img.Alpha {
		stride++
	}
	buf := make([]byte, 4*stride)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			for i := 0; i < stride; i++ {
				binary.LittleEndian.PutUint32(buf[4*i:4*i+4], math.Float32bits(float32(c.V[i])))
			}
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("writing sfi samples at (%d,%d): %w", x, y, err)
			}
		}
	}
	return nil
}

// Decode reads an Image2D written by Encode.
func Decode(r io.Reader) (*image2d.Image2D, error) {
	var header [10]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading sfi header: %w", err)
	}
	width := int(binary.LittleEndian.Uint32(header[0:4]))
	height := int(binary.LittleEndian.Uint32(header[4:8]))
	chans := int(header[8])
	var alpha bool
	switch header[9] {
	case alphaMarkerYes:
		alpha = true
	case alphaMarkerNo:
		alpha = false
	default:
		return nil, fmt.Errorf("%w: bad sfi alpha marker %q", ierr.ErrBadHeader, header[9])
	}
	if chans < 1 || chans > 4 {
		return nil, fmt.Errorf("%w: sfi channel count %d", ierr.ErrBadHeader, chans)
	}

	stride := chans
	if alpha {
		stride++
	}
	img := image2d.New(width, height, chans, alpha, colour.New(chans, alpha, make([]float32, stride)...))
	buf := make([]byte, 4*stride)
	values := make([]float32, stride)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("reading sfi samples at (%d,%d): %w", x, y, err)
			}
			for i := 0; i < stride; i++ {
				values[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i : 4*i+4]))
			}
			if err := img.Set(x, y, colour.New(chans, alpha, values...)); err != nil {
				return nil, fmt.Errorf("setting pixel (%d,%d): %w", x, y, err)
			}
		}
	}
	return img, nil
}
