package bcn

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// EncodeBC3 compresses img (3 colour channels + alpha) into BC3/DXT5 block
// data: an interpolated-alpha BC4 block followed by a BC1 colour block.
func EncodeBC3(img *image2d.Image2D) ([]byte, error) {
	if img.Chans != 3 || !img.Alpha {
		return nil, ierr.ErrChannelMismatch
	}
	blocksW, blocksH := blockDims(img.Width, img.Height)
	out := make([]byte, blocksW*blocksH*16)
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			block := fetchBlock(img, bx, by)
			var alphaVals [16]uint8
			for i, p := range block {
				alphaVals[i] = p.A
			}
			alphaBlock := encodeBlockBC4(alphaVals)
			colorBlock := encodeBlockBC1(block, true)

			off := (by*blocksW + bx) * 16
			copy(out[off:off+8], alphaBlock[:])
			copy(out[off+8:off+16], colorBlock[:])
		}
	}
	return out, nil
}

// DecodeBC3 decompresses BC3/DXT5 data into a 3-channel-plus-alpha image.
func DecodeBC3(data []byte, width, height int) (*image2d.Image2D, error) {
	blocksW, blocksH := blockDims(width, height)
	want := blocksW * blocksH * 16
	if len(data) < want {
		return nil, ierr.ErrBadHeader
	}
	out := image2d.New(width, height, 3, true, colour.Colour{Chans: 3, Alpha: true})
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			off := (by*blocksW + bx) * 16
			alphas := decodeBlockBC4(data[off : off+8])
			colorBlock := decodeBlockBC1(data[off+8:off+16], true)
			for i := range colorBlock {
				colorBlock[i].A = alphas[i]
			}
			writeBlock(out, bx, by, colorBlock, 3, true)
		}
	}
	return out, nil
}
