package pixelalg

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/sample"
)

// selectorValue resolves one swizzle selector character against a source
// colour: x/y/z/w index source channels 0..3, E yields
// the constant 0, F yields the constant 1 (case-insensitive; the last
// character may be uppercase to mark the result's alpha channel).
func selectorValue(src colour.Colour, ch byte) (sample.Sample, error) {
	switch ch {
	case 'x', 'X':
		return srcChannel(src, 0)
	case 'y', 'Y':
		return srcChannel(src, 1)
	case 'z', 'Z':
		return srcChannel(src, 2)
	case 'w', 'W':
		return srcChannel(src, 3)
	case 'e', 'E':
		return 0, nil
	case 'f', 'F':
		return 1, nil
	default:
		return 0, ierr.ErrChannelMismatch
	}
}

func srcChannel(src colour.Colour, idx int) (sample.Sample, error) {
	if idx >= src.Total() {
		return 0, ierr.ErrChannelMismatch
	}
	return src.V[idx], nil
}

// Swizzle builds an image whose channels are the selectors string over
// {x,y,z,w,E,F}, length 1-4. The last selector may be uppercase to
// indicate the result's last channel is alpha.
func Swizzle(img *image2d.Image2D, selectors string) (*image2d.Image2D, error) {
	if len(selectors) < 1 || len(selectors) > 4 {
		return nil, ierr.ErrChannelMismatch
	}

	last := selectors[len(selectors)-1]
	dstAlpha := last >= 'A' && last <= 'Z'
	dstChans := len(selectors)
	if dstAlpha {
		dstChans--
	}
	if dstChans < 1 {
		return nil, ierr.ErrChannelMismatch
	}

	sel := selectors
	var zipErr error
	out := image2d.NewFromFn(img.Width, img.Height, dstChans, dstAlpha, func(x, y int) colour.Colour {
		src := img.At(x, y)
		c := colour.Colour{Chans: dstChans, Alpha: dstAlpha}
		for i := 0; i < len(sel); i++ {
			v, err := selectorValue(src, sel[i])
			if err != nil && zipErr == nil {
				zipErr = err
			}
			c.V[i] = v
		}
		return c
	})
	if zipErr != nil {
		return nil, zipErr
	}
	return out, nil
}
