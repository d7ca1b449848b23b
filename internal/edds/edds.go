package edds

import (
	"fmt"
	"io"

	"github.com/grit-engine/luaimg-go/internal/dds"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// Encode writes s (a Simple-topology surface, as produced by the
// imageset-packer's own EDDS writer) as an EDDS file: a DDS header followed by
// a block table and block bodies, smallest mip first, each mip's pixel
// payload LZ4-chunk compressed independently.
func Encode(w io.Writer, s *dds.Surface) error {
	if s.Topology != dds.TopologySimple {
		return fmt.Errorf("%w: edds only supports simple surfaces", ierr.ErrUnsupportedHeader)
	}
	chain := s.Faces[0]
	if err := dds.ValidateMipChain(chain); err != nil {
		return err
	}

	pf, err := dds.PixelFormatFor(s.FormatName)
	if err != nil {
		return err
	}
	info, err := dds.ResolveFormat(pf)
	if err != nil {
		return err
	}
	if info.Kind == dds.KindFloat {
		return fmt.Errorf("%w: encoding float format %s is not implemented", ierr.ErrUnsupportedHeader, s.FormatName)
	}

	width, height := chain[0].Width, chain[0].Height
	header := dds.BuildHeader(pf, info, dds.TopologySimple, width, height, 0, len(chain))

	blocks := make([]*Block, len(chain))
	for i, img := range chain {
		raw, err := dds.EncodeMip(img, info)
		if err != nil {
			return fmt.Errorf("encoding mip %d: %w", i, err)
		}
		block, err := compressBlock(raw)
		if err != nil {
			return fmt.Errorf("compressing mip %d: %w", i, err)
		}
		blocks[i] = block
	}

	if err := dds.WriteMagic(w); err != nil {
		return err
	}
	if err := dds.WriteHeader(w, header); err != nil {
		return err
	}

	// Block table and bodies are written smallest mip first, matching
	// imageset-packer's EDDS writer.
	for i := len(blocks) - 1; i >= 0; i-- {
		block := blocks[i]
		if _, err := w.Write([]byte(block.Magic)); err != nil {
			return fmt.Errorf("writing block magic for mip %d: %w", i, err)
		}
		var sizeBuf [4]byte
		putLE32(sizeBuf[:], uint32(block.Size))
		if _, err := w.Write(sizeBuf[:]); err != nil {
			return fmt.Errorf("writing block size for mip %d: %w", i, err)
		}
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeBlockData(w, blocks[i]); err != nil {
			return fmt.Errorf("writing block data for mip %d: %w", i, err)
		}
	}
	return nil
}

// Decode reads an EDDS file written by Encode back into a Simple
// surface.
func Decode(r io.Reader) (*dds.Surface, error) {
	header, err := dds.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	info, err := dds.ResolveFormat(header.PixelFormat)
	if err != nil {
		return nil, err
	}
	if info.Kind == dds.KindFloat {
		return nil, fmt.Errorf("%w: float format decode not implemented", ierr.ErrUnsupportedHeader)
	}

	mipCount := int(header.MipMapCount)
	if mipCount == 0 {
		mipCount = 1
	}

	table, err := readBlockTable(r, mipCount)
	if err != nil {
		return nil, fmt.Errorf("reading block table: %w", err)
	}

	// Table and bodies are stored smallest mip first; widths/heights are
	// computed forward from the header's base size and then read back
	// in reverse to match storage order.
	dims := make([][2]int, mipCount)
	w, h := int(header.Width), int(header.Height)
	for i := 0; i < mipCount; i++ {
		dims[i] = [2]int{w, h}
		w, h = dds.NextMipDim(w), dds.NextMipDim(h)
	}

	chain := make([]*image2d.Image2D, mipCount)
	for i := mipCount - 1; i >= 0; i-- {
		body, err := readBlockBody(r, table[mipCount-1-i])
		if err != nil {
			return nil, fmt.Errorf("reading block body for mip %d: %w", i, err)
		}
		mipW, mipH := dims[i][0], dims[i][1]
		expected, err := dds.MipDataLength(info, mipW, mipH)
		if err != nil {
			return nil, err
		}
		raw, err := decompressBlock(body, expected)
		if err != nil {
			return nil, fmt.Errorf("decompressing mip %d: %w", i, err)
		}
		img, err := dds.DecodeMip(raw, mipW, mipH, info)
		if err != nil {
			return nil, fmt.Errorf("decoding mip %d: %w", i, err)
		}
		chain[i] = img
	}

	return &dds.Surface{
		Topology:   dds.TopologySimple,
		FormatName: formatNameOf(header),
		Faces:      []dds.MipChain{chain},
	}, nil
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func formatNameOf(h *dds.Header) string {
	info, err := dds.ResolveFormat(h.PixelFormat)
	if err != nil {
		return "UNKNOWN"
	}
	return dds.FormatNameFor(info)
}
