package bcn

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func genAlphaRef(a0, a1 uint8) [8]uint8 {
	if a0 > a1 {
		return [8]uint8{
			a0, a1,
			interpolateSeventh(a0, a1, 1),
			interpolateSeventh(a0, a1, 2),
			interpolateSeventh(a0, a1, 3),
			interpolateSeventh(a0, a1, 4),
			interpolateSeventh(a0, a1, 5),
			interpolateSeventh(a0, a1, 6),
		}
	}
	return [8]uint8{
		a0, a1,
		interpolateFifth(a0, a1, 1),
		interpolateFifth(a0, a1, 2),
		interpolateFifth(a0, a1, 3),
		interpolateFifth(a0, a1, 4),
		0, 255,
	}
}

func interpolateSeventh(a0, a1 uint8, num int) uint8 {
	return uint8(((7-num)*int(a0) + num*int(a1) + 3) / 7)
}

func interpolateFifth(a0, a1 uint8, num int) uint8 {
	return uint8(((5-num)*int(a0) + num*int(a1) + 2) / 5)
}

func minMaxAlpha(vals [16]uint8) (minV, maxV uint8) {
	minV, maxV = 255, 0
	for _, v := range vals {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return
}

func encodeBlockBC4(vals [16]uint8) [8]byte {
	minV, maxV := minMaxAlpha(vals)
	a0, a1 := maxV, minV
	ref := genAlphaRef(a0, a1)

	var indices [16]uint8
	for i, v := range vals {
		minDelta := int32(0x7fffffff)
		for j, r := range ref {
			d := absInt32(int32(r) - int32(v))
			if d < minDelta {
				minDelta = d
				indices[i] = uint8(j)
			}
		}
	}

	table := [6]uint8{
		(indices[0] << 0) | (indices[1] << 3) | (indices[2] << 6),
		(indices[2] >> 2) | (indices[3] << 1) | (indices[4] << 4) | (indices[5] << 7),
		(indices[5] >> 1) | (indices[6] << 2) | (indices[7] << 5),
		(indices[8] << 0) | (indices[9] << 3) | (indices[10] << 6),
		(indices[10] >> 2) | (indices[11] << 1) | (indices[12] << 4) | (indices[13] << 7),
		(indices[13] >> 1) | (indices[14] << 2) | (indices[15] << 5),
	}

	return [8]byte{a0, a1, table[0], table[1], table[2], table[3], table[4], table[5]}
}

func decodeBlockBC4(data []byte) [16]uint8 {
	a0, a1 := data[0], data[1]
	table := [6]uint8{data[2], data[3], data[4], data[5], data[6], data[7]}
	ref := genAlphaRef(a0, a1)

	var indices [16]uint8
	indices[0] = (table[0] >> 0) & 0x7
	indices[1] = (table[0] >> 3) & 0x7
	indices[2] = ((table[0] >> 6) & 0x3) | ((table[1] << 2) & 0x4)
	indices[3] = (table[1] >> 1) & 0x7
	indices[4] = (table[1] >> 4) & 0x7
	indices[5] = ((table[1] >> 7) & 0x1) | ((table[2] << 1) & 0x6)
	indices[6] = (table[2] >> 2) & 0x7
	indices[7] = (table[2] >> 5) & 0x7
	indices[8] = (table[3] >> 0) & 0x7
	indices[9] = (table[3] >> 3) & 0x7
	indices[10] = ((table[3] >> 6) & 0x3) | ((table[4] << 2) & 0x4)
	indices[11] = (table[4] >> 1) & 0x7
	indices[12] = (table[4] >> 4) & 0x7
	indices[13] = ((table[4] >> 7) & 0x1) | ((table[5] << 1) & 0x6)
	indices[14] = (table[5] >> 2) & 0x7
	indices[15] = (table[5] >> 5) & 0x7

	var out [16]uint8
	for i, idx := range indices {
		out[i] = ref[idx]
	}
	return out
}

func fetchAlphaBlock(img *image2d.Image2D, bx, by, channel int) [16]uint8 {
	var vals [16]uint8
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			px, py := bx*4+col, by*4+row
			if px >= img.Width {
				px = img.Width - 1
			}
			if py >= img.Height {
				py = img.Height - 1
			}
			c := img.At(px, py)
			vals[row*4+col] = toByte(c.V[channel])
		}
	}
	return vals
}

// EncodeBC4 compresses a single colour channel (img.Chans must be 1) into
// BC4/ATI1 block data.
func EncodeBC4(img *image2d.Image2D) ([]byte, error) {
	if img.Chans != 1 {
		return nil, ierr.ErrChannelMismatch
	}
	blocksW, blocksH := blockDims(img.Width, img.Height)
	out := make([]byte, blocksW*blocksH*8)
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			vals := fetchAlphaBlock(img, bx, by, 0)
			enc := encodeBlockBC4(vals)
			off := (by*blocksW + bx) * 8
			copy(out[off:], enc[:])
		}
	}
	return out, nil
}

// DecodeBC4 decompresses BC4/ATI1 data into a 1-channel image.
func DecodeBC4(data []byte, width, height int) (*image2d.Image2D, error) {
	blocksW, blocksH := blockDims(width, height)
	want := blocksW * blocksH * 8
	if len(data) < want {
		return nil, ierr.ErrBadHeader
	}
	out := image2d.New(width, height, 1, false, colour.Gray(0))
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			off := (by*blocksW + bx) * 8
			vals := decodeBlockBC4(data[off : off+8])
			for row := 0; row < 4; row++ {
				for col := 0; col < 4; col++ {
					px, py := bx*4+col, by*4+row
					if px >= width || py >= height {
						continue
					}
					_ = out.Set(px, py, colour.Gray(fromByte(vals[row*4+col])))
				}
			}
		}
	}
	return out, nil
}
