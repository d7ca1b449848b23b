package bcn

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/sample"
)

func toByte(v sample.Sample) uint8 { return uint8(sample.Clamp01(v)*255 + 0.5) }

func fromByte(v uint8) sample.Sample { return sample.Sample(v) / 255 }

// fetchBlock reads a 4x4 pixel block from img at block coordinates
// (bx,by) in block units, edge-padding with the last valid pixel's colour
// the way imageset-packer zero-pads (it pads with ColorRGBA{}; this
// samples the edge pixel instead so encoded padding does not drag down a
// partial block's endpoints).
func fetchBlock(img *image2d.Image2D, bx, by int) [16]colorRGBA {
	var block [16]colorRGBA
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			px := bx*4 + col
			py := by*4 + row
			if px >= img.Width {
				px = img.Width - 1
			}
			if py >= img.Height {
				py = img.Height - 1
			}
			c := img.At(px, py)
			block[row*4+col] = toRGBA(c)
		}
	}
	return block
}

func toRGBA(c colour.Colour) colorRGBA {
	switch c.Chans {
	case 1:
		v := toByte(c.V[0])
		return colorRGBA{R: v, G: v, B: v, A: toByte(c.A())}
	case 2:
		return colorRGBA{R: toByte(c.V[0]), G: toByte(c.V[1]), B: 0, A: toByte(c.A())}
	default:
		return colorRGBA{R: toByte(c.V[0]), G: toByte(c.V[1]), B: toByte(c.V[2]), A: toByte(c.A())}
	}
}

func writeBlock(img *image2d.Image2D, bx, by int, block [16]colorRGBA, chans int, alpha bool) {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			px := bx*4 + col
			py := by*4 + row
			if px >= img.Width || py >= img.Height {
				continue
			}
			c := fromRGBA(block[row*4+col], chans, alpha)
			_ = img.Set(px, py, c)
		}
	}
}

func fromRGBA(c colorRGBA, chans int, alpha bool) colour.Colour {
	out := colour.Colour{Chans: chans, Alpha: alpha}
	switch chans {
	case 1:
		out.V[0] = fromByte(c.R)
	case 2:
		out.V[0], out.V[1] = fromByte(c.R), fromByte(c.G)
	default:
		out.V[0], out.V[1], out.V[2] = fromByte(c.R), fromByte(c.G), fromByte(c.B)
	}
	if alpha {
		out.V[chans] = fromByte(c.A)
	}
	return out
}

func to565(c colorRGBA) uint16 {
	return (uint16(c.R&0b11111000) << 8) | (uint16(c.G&0b11111100) << 3) | uint16(c.B>>3)
}

func from565(v uint16) colorRGBA {
	r := uint8((v >> 8) & 0b11111000)
	g := uint8((v >> 3) & 0b11111100)
	b := uint8((v << 3) & 0b11111000)
	return colorRGBA{R: r, G: g, B: b, A: 255}
}

func luminance(c colorRGBA) int32 {
	return int32(c.R) + int32(c.G)*2 + int32(c.B)
}

func sqrDistance(a, b colorRGBA) int32 {
	dr := int32(a.R) - int32(b.R)
	dg := int32(a.G) - int32(b.G)
	db := int32(a.B) - int32(b.B)
	return dr*dr + dg*dg + db*db
}

func mix21Over3(x, y uint8) uint8 { return uint8((2*uint16(x) + uint16(y)) / 3) }
func mix12Over3(x, y uint8) uint8 { return uint8((uint16(x) + 2*uint16(y)) / 3) }
func mix11Over2(x, y uint8) uint8 { return uint8((uint16(x) + uint16(y)) / 2) }

func mix21Over3Saturate(a, b colorRGBA) colorRGBA {
	return colorRGBA{R: mix21Over3(a.R, b.R), G: mix21Over3(a.G, b.G), B: mix21Over3(a.B, b.B), A: 255}
}
func mix12Over3Saturate(a, b colorRGBA) colorRGBA {
	return colorRGBA{R: mix12Over3(a.R, b.R), G: mix12Over3(a.G, b.G), B: mix12Over3(a.B, b.B), A: 255}
}
func mix11Over2Saturate(a, b colorRGBA) colorRGBA {
	return colorRGBA{R: mix11Over2(a.R, b.R), G: mix11Over2(a.G, b.G), B: mix11Over2(a.B, b.B), A: 255}
}

func minMaxLuminance(block [16]colorRGBA) (minC, maxC colorRGBA) {
	maxLum := int32(-1)
	minLum := int32(0x7fffffff)
	maxC, minC = block[0], block[0]
	for _, p := range block {
		lum := luminance(p)
		if lum > maxLum {
			maxLum = lum
			maxC = p
		}
		if lum < minLum {
			minLum = lum
			minC = p
		}
	}
	return minC, maxC
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// encodeColorTableBC1BC3 encodes colour indices for BC1/BC3, mapping
// below-half-alpha pixels to the reserved transparent index when hasAlpha.
func encodeColorTableBC1BC3(block [16]colorRGBA, refColors [4]colorRGBA, hasAlpha bool) uint32 {
	var indices [16]uint8
	for i, p := range block {
		if hasAlpha && p.A < 128 {
			indices[i] = 3
			continue
		}
		minDist := int32(0x7fffffff)
		best := uint8(0)
		for j, ref := range refColors {
			d := sqrDistance(p, ref)
			if d < minDist {
				minDist = d
				best = uint8(j)
			}
		}
		indices[i] = best
	}
	var table uint32
	for i, idx := range indices {
		table |= uint32(idx) << (i * 2)
	}
	return table
}

func blockDims(width, height int) (blocksW, blocksH int) {
	return (width + 3) / 4, (height + 3) / 4
}
