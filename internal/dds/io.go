package dds

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/grit-engine/luaimg-go/internal/ierr"
)

func readDWORD(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeDWORD(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads the magic and 124-byte header, rejecting wrong magic or
// header/pixel-format sizes per the documented layout.
func ReadHeader(r io.Reader) (*Header, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading DDS magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ierr.ErrBadHeader, string(magic))
	}

	size, err := readDWORD(r)
	if err != nil {
		return nil, fmt.Errorf("reading header size: %w", err)
	}
	if size != HeaderSize {
		return nil, fmt.Errorf("%w: header size %d, want %d", ierr.ErrBadHeader, size, HeaderSize)
	}

	var h Header
	h.Size = size
	fields := []*uint32{&h.Flags, &h.Height, &h.Width, &h.PitchOrLinearSize, &h.Depth, &h.MipMapCount}
	for _, f := range fields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading header field: %w", err)
		}
		*f = v
	}
	for i := range h.Reserved1 {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading reserved1[%d]: %w", i, err)
		}
		h.Reserved1[i] = v
	}

	pfSize, err := readDWORD(r)
	if err != nil {
		return nil, fmt.Errorf("reading pixel format size: %w", err)
	}
	if pfSize != PixelFormatSize {
		return nil, fmt.Errorf("%w: pixel format size %d, want %d", ierr.ErrBadHeader, pfSize, PixelFormatSize)
	}
	h.PixelFormat.Size = pfSize
	pfFields := []*uint32{
		&h.PixelFormat.Flags, &h.PixelFormat.FourCC, &h.PixelFormat.RGBBitCount,
		&h.PixelFormat.RBitMask, &h.PixelFormat.GBitMask, &h.PixelFormat.BBitMask, &h.PixelFormat.ABitMask,
	}
	for _, f := range pfFields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading pixel format field: %w", err)
		}
		*f = v
	}

	capsFields := []*uint32{&h.Caps, &h.Caps2, &h.Caps3, &h.Caps4, &h.Reserved2}
	for _, f := range capsFields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading caps field: %w", err)
		}
		*f = v
	}

	if h.PixelFormat.Flags&PFFourCC != 0 && h.PixelFormat.FourCC == FourCCDX10 {
		return nil, fmt.Errorf("%w: DX10 extension header", ierr.ErrUnsupportedHeader)
	}
	if h.PixelFormat.Flags&PFRGB != 0 {
		if h.PixelFormat.RBitMask == 0 && h.PixelFormat.GBitMask == 0 && h.PixelFormat.BBitMask == 0 {
			return nil, fmt.Errorf("%w: all-zero RGB masks", ierr.ErrBadHeader)
		}
		switch h.PixelFormat.RGBBitCount {
		case 8, 16, 24, 32:
		default:
			return nil, fmt.Errorf("%w: rgb_bitcount %d", ierr.ErrBadHeader, h.PixelFormat.RGBBitCount)
		}
	}

	return &h, nil
}

// WriteMagic writes the 4-byte DDS magic.
func WriteMagic(w io.Writer) error {
	_, err := w.Write([]byte(Magic))
	return err
}

// WriteHeader writes h's 124 bytes (without magic).
func WriteHeader(w io.Writer, h *Header) error {
	values := []uint32{h.Size, h.Flags, h.Height, h.Width, h.PitchOrLinearSize, h.Depth, h.MipMapCount}
	for _, v := range values {
		if err := writeDWORD(w, v); err != nil {
			return err
		}
	}
	for _, v := range h.Reserved1 {
		if err := writeDWORD(w, v); err != nil {
			return err
		}
	}
	pf := []uint32{
		h.PixelFormat.Size, h.PixelFormat.Flags, h.PixelFormat.FourCC, h.PixelFormat.RGBBitCount,
		h.PixelFormat.RBitMask, h.PixelFormat.GBitMask, h.PixelFormat.BBitMask, h.PixelFormat.ABitMask,
	}
	for _, v := range pf {
		if err := writeDWORD(w, v); err != nil {
			return err
		}
	}
	caps := []uint32{h.Caps, h.Caps2, h.Caps3, h.Caps4, h.Reserved2}
	for _, v := range caps {
		if err := writeDWORD(w, v); err != nil {
			return err
		}
	}
	return nil
}
