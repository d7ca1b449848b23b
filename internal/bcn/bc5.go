package bcn

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// EncodeBC5 compresses a 2-channel (x,y) image into BC5/ATI2 block data:
// two BC4 blocks, one per channel. The channel order is deliberately
// inverted from the intuitive (x then y) layout: the Y block is written
// first and the X block second, matching the on-disk layout documented
// for this container and preserved intentionally (see DESIGN.md).
func EncodeBC5(img *image2d.Image2D) ([]byte, error) {
	if img.Chans != 2 {
		return nil, ierr.ErrChannelMismatch
	}
	blocksW, blocksH := blockDims(img.Width, img.Height)
	out := make([]byte, blocksW*blocksH*16)
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			xVals := fetchAlphaBlock(img, bx, by, 0)
			yVals := fetchAlphaBlock(img, bx, by, 1)
			yBlock := encodeBlockBC4(yVals)
			xBlock := encodeBlockBC4(xVals)

			off := (by*blocksW + bx) * 16
			copy(out[off:off+8], yBlock[:])
			copy(out[off+8:off+16], xBlock[:])
		}
	}
	return out, nil
}

// DecodeBC5 decompresses BC5/ATI2 data into a 2-channel (x,y) image,
// reading the Y block first and the X block second per EncodeBC5's layout.
func DecodeBC5(data []byte, width, height int) (*image2d.Image2D, error) {
	blocksW, blocksH := blockDims(width, height)
	want := blocksW * blocksH * 16
	if len(data) < want {
		return nil, ierr.ErrBadHeader
	}
	out := image2d.New(width, height, 2, false, colour.New(2, false, 0, 0))
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			off := (by*blocksW + bx) * 16
			yVals := decodeBlockBC4(data[off : off+8])
			xVals := decodeBlockBC4(data[off+8 : off+16])
			for row := 0; row < 4; row++ {
				for col := 0; col < 4; col++ {
					px, py := bx*4+col, by*4+row
					if px >= width || py >= height {
						continue
					}
					i := row*4 + col
					_ = out.Set(px, py, colour.New(2, false, fromByte(xVals[i]), fromByte(yVals[i])))
				}
			}
		}
	}
	return out, nil
}
