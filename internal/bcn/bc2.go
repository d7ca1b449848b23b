package bcn

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// EncodeBC2 compresses img (3 colour channels + alpha) into BC2/DXT3 block
// data: explicit 4-bit alpha per pixel followed by a BC1 colour block.
// The 4-bit alpha is derived as a/16 (truncating division), the inverse of
// imageset-packer's decode scaling a*17; see DESIGN.md for why the round trip
// through the documented (a*16)/255 decode is intentionally not bit-exact.
func EncodeBC2(img *image2d.Image2D) ([]byte, error) {
	if img.Chans != 3 || !img.Alpha {
		return nil, ierr.ErrChannelMismatch
	}
	blocksW, blocksH := blockDims(img.Width, img.Height)
	out := make([]byte, blocksW*blocksH*16)
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			colorBlock := fetchBlock(img, bx, by)
			off := (by*blocksW + bx) * 16
			for i := 0; i < 8; i++ {
				lo := colorBlock[i*2].A / 16
				hi := colorBlock[i*2+1].A / 16
				out[off+i] = lo | (hi << 4)
			}
			enc := encodeBlockBC1(colorBlock, true)
			copy(out[off+8:], enc[:])
		}
	}
	return out, nil
}

// DecodeBC2 decompresses BC2/DXT3 data. Per spec, the decoded alpha scale
// is (nibble*16)/255, not the naive nibble*17 bit-replication imageset-packer's
// BC2 decoder uses; this is preserved deliberately (see DESIGN.md) and
// differs from a bit-exact 4-bit-to-8-bit expansion.
func DecodeBC2(data []byte, width, height int) (*image2d.Image2D, error) {
	blocksW, blocksH := blockDims(width, height)
	want := blocksW * blocksH * 16
	if len(data) < want {
		return nil, ierr.ErrBadHeader
	}
	out := image2d.New(width, height, 3, true, colour.Colour{Chans: 3, Alpha: true})
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			off := (by*blocksW + bx) * 16
			var alphas [16]uint8
			for i := 0; i < 8; i++ {
				b := data[off+i]
				// Stored as nibble*16; fromByte's /255 then yields (nibble*16)/255.
				alphas[i*2] = (b & 0x0f) * 16
				alphas[i*2+1] = (b >> 4) * 16
			}
			colorBlock := decodeBlockBC1(data[off+8:off+16], true)
			for i := range colorBlock {
				colorBlock[i].A = alphas[i]
			}
			writeBlock(out, bx, by, colorBlock, 3, true)
		}
	}
	return out, nil
}
