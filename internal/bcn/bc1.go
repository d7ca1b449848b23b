package bcn

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// blockHasPunchThroughAlpha reports whether any source pixel is
// transparent enough to require BC1's reserved one-bit-alpha palette
// slot (palette index 3 reads as transparent black).
func blockHasPunchThroughAlpha(block [16]colorRGBA) bool {
	for _, p := range block {
		if p.A < 128 {
			return true
		}
	}
	return false
}

// encodeBlockBC1 encodes block into a BC1 colour block. forceFourColour
// suppresses the one-bit-alpha palette entirely (used by BC2/BC3, whose
// colour sub-block always carries four interpolated colours; alpha comes
// from a separate block).
func encodeBlockBC1(block [16]colorRGBA, forceFourColour bool) [8]byte {
	minColor, maxColor := minMaxLuminance(block)
	threeColourMode := !forceFourColour && blockHasPunchThroughAlpha(block)

	min565, max565 := to565(minColor), to565(maxColor)
	var color0, color1 colorRGBA
	var color0565, color1565 uint16

	switch {
	case threeColourMode && min565 <= max565:
		color0, color1 = minColor, maxColor
		color0565, color1565 = min565, max565
	case threeColourMode:
		color0, color1 = maxColor, minColor
		color0565, color1565 = max565, min565
	case max565 > min565:
		color0, color1 = maxColor, minColor
		color0565, color1565 = max565, min565
	default:
		// Quantisation collapsed the endpoints onto or past each other;
		// nudge color1 one 565 step below color0 to keep four-colour mode.
		// When color0's word is 0 there is no lower step, both words stay 0,
		// and the decoder reads the block in three-colour mode.
		color0, color0565 = maxColor, max565
		color1565 = max565
		if max565 > 0 {
			color1565--
		}
		color1 = from565(color1565)
	}

	var color2, color3 colorRGBA
	if threeColourMode {
		color2 = mix11Over2Saturate(color0, color1)
		color3 = colorRGBA{}
	} else {
		color2 = mix21Over3Saturate(color0, color1)
		color3 = mix12Over3Saturate(color0, color1)
	}

	refColors := [4]colorRGBA{color0, color1, color2, color3}
	table := encodeColorTableBC1BC3(block, refColors, threeColourMode)

	var out [8]byte
	out[0] = byte(color0565)
	out[1] = byte(color0565 >> 8)
	out[2] = byte(color1565)
	out[3] = byte(color1565 >> 8)
	out[4] = byte(table)
	out[5] = byte(table >> 8)
	out[6] = byte(table >> 16)
	out[7] = byte(table >> 24)
	return out
}

func decodeBlockBC1(data []byte, forceFourColour bool) [16]colorRGBA {
	color0565 := uint16(data[0]) | uint16(data[1])<<8
	color1565 := uint16(data[2]) | uint16(data[3])<<8
	table := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24

	color0 := from565(color0565)
	color1 := from565(color1565)
	threeColourMode := !forceFourColour && color0565 <= color1565

	var color2, color3 colorRGBA
	if threeColourMode {
		color2 = mix11Over2Saturate(color0, color1)
		color3 = colorRGBA{}
	} else {
		color2 = mix21Over3Saturate(color0, color1)
		color3 = mix12Over3Saturate(color0, color1)
	}
	refColors := [4]colorRGBA{color0, color1, color2, color3}

	var block [16]colorRGBA
	for i := 0; i < 16; i++ {
		idx := int((table >> (i * 2)) & 0x3)
		block[i] = refColors[idx]
		if threeColourMode && idx == 3 {
			block[i].A = 0
		} else {
			block[i].A = 255
		}
	}
	return block
}

// EncodeBC1 compresses img (3 colour channels, alpha optional treated as a
// 1-bit punch-through) into BC1/DXT1 block data.
func EncodeBC1(img *image2d.Image2D) ([]byte, error) {
	if img.Chans != 3 {
		return nil, ierr.ErrChannelMismatch
	}
	blocksW, blocksH := blockDims(img.Width, img.Height)
	out := make([]byte, blocksW*blocksH*8)
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			block := fetchBlock(img, bx, by)
			enc := encodeBlockBC1(block, false)
			off := (by*blocksW + bx) * 8
			copy(out[off:], enc[:])
		}
	}
	return out, nil
}

// DecodeBC1 decompresses BC1/DXT1 data into a 3-channel image, carrying a
// 1-bit alpha as the alpha channel when withAlpha is true.
func DecodeBC1(data []byte, width, height int, withAlpha bool) (*image2d.Image2D, error) {
	blocksW, blocksH := blockDims(width, height)
	want := blocksW * blocksH * 8
	if len(data) < want {
		return nil, ierr.ErrBadHeader
	}
	out := image2d.New(width, height, 3, withAlpha, colour.Colour{Chans: 3, Alpha: withAlpha})
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			off := (by*blocksW + bx) * 8
			block := decodeBlockBC1(data[off:off+8], false)
			writeBlock(out, bx, by, block, 3, withAlpha)
		}
	}
	return out, nil
}
