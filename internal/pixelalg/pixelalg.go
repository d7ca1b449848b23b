// Package pixelalg implements the pixel algebra engine: zip/reduce/map/
// blend/swizzle operating on a pair of operands that may independently be
// a Colour scalar or an Image2D, with the arity-compatibility rules of
// the pixel algebra rules (mask broadcast, alpha promotion).
package pixelalg

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/sample"
)

// Operand is either a Colour scalar (via Const) or an *image2d.Image2D.
type Operand interface {
	Channels() int
	HasAlpha() bool
	At(x, y int) colour.Colour
}

// constOperand adapts a Colour to Operand: every pixel reads the same value.
type constOperand struct{ C colour.Colour }

func (o constOperand) Channels() int            { return o.C.Chans }
func (o constOperand) HasAlpha() bool           { return o.C.Alpha }
func (o constOperand) At(_, _ int) colour.Colour { return o.C }

// Const wraps a Colour as an Operand.
func Const(c colour.Colour) Operand { return constOperand{C: c} }

func asImage(op Operand) (*image2d.Image2D, bool) {
	img, ok := op.(*image2d.Image2D)
	return img, ok
}

// promoteAlpha implements the "alpha promoted colour" rule: if imgSide is
// an Image2D with alpha and colourSide is a colour constant of the same
// colour arity lacking alpha, synthesise alpha=1.0 on colourSide.
func promoteAlpha(imgSide, colourSide Operand) Operand {
	if !imgSide.HasAlpha() || colourSide.HasAlpha() {
		return colourSide
	}
	if _, isImg := asImage(colourSide); isImg {
		return colourSide
	}
	co, ok := colourSide.(constOperand)
	if !ok || co.C.Chans != imgSide.Channels() {
		return colourSide
	}
	return constOperand{C: co.C.WithAlpha(1)}
}

// resolved holds the outcome of the arity-compatibility check: the output
// shape, and whether each side should be mask-broadcast.
type resolved struct {
	chans      int
	alpha      bool
	aBroadcast bool
	bBroadcast bool
}

func resolveArity(a, b Operand) (resolved, Operand, Operand, error) {
	if aImg, ok := asImage(a); ok {
		b = promoteAlpha(aImg, b)
	}
	if bImg, ok := asImage(b); ok {
		a = promoteAlpha(bImg, a)
	}

	if a.Channels() == b.Channels() && a.HasAlpha() == b.HasAlpha() {
		return resolved{chans: a.Channels(), alpha: a.HasAlpha()}, a, b, nil
	}
	if a.Channels() == 1 && !a.HasAlpha() {
		return resolved{chans: b.Channels(), alpha: b.HasAlpha(), aBroadcast: true}, a, b, nil
	}
	if b.Channels() == 1 && !b.HasAlpha() {
		return resolved{chans: a.Channels(), alpha: a.HasAlpha(), bBroadcast: true}, a, b, nil
	}
	return resolved{}, a, b, ierr.ErrChannelMismatch
}

func valueAt(op Operand, x, y, c int, broadcast bool) sample.Sample {
	v := op.At(x, y)
	if broadcast {
		return v.V[0]
	}
	return v.V[c]
}

// sizeCheck verifies that two Image2D operands (if both are images) share
// dimensions, returning the shared size or SizeMismatch.
func sizeCheck(a, b Operand) (w, h int, isImage bool, err error) {
	aImg, aOK := asImage(a)
	bImg, bOK := asImage(b)
	switch {
	case aOK && bOK:
		if aImg.Width != bImg.Width || aImg.Height != bImg.Height {
			return 0, 0, false, ierr.ErrSizeMismatch
		}
		return aImg.Width, aImg.Height, true, nil
	case aOK:
		return aImg.Width, aImg.Height, true, nil
	case bOK:
		return bImg.Width, bImg.Height, true, nil
	default:
		return 0, 0, false, nil
	}
}

// Zip applies f channel-wise to a and b following the arity-compatibility
// rules. If either operand is an Image2D the result is an Image2D of the
// shared size; if both are colour constants the result is a 1x1-shaped
// Colour wrapped via Const.
func Zip(a, b Operand, f func(x, y sample.Sample) sample.Sample) (Operand, error) {
	w, h, isImage, err := sizeCheck(a, b)
	if err != nil {
		return nil, err
	}

	r, ra, rb, err := resolveArity(a, b)
	if err != nil {
		return nil, err
	}

	if !isImage {
		out := colour.Colour{Chans: r.chans, Alpha: r.alpha}
		n := out.Total()
		for c := 0; c < n; c++ {
			out.V[c] = f(valueAt(ra, 0, 0, c, r.aBroadcast), valueAt(rb, 0, 0, c, r.bBroadcast))
		}
		return Const(out), nil
	}

	out := image2d.NewFromFn(w, h, r.chans, r.alpha, func(x, y int) colour.Colour {
		c := colour.Colour{Chans: r.chans, Alpha: r.alpha}
		n := c.Total()
		for i := 0; i < n; i++ {
			c.V[i] = f(valueAt(ra, x, y, i, r.aBroadcast), valueAt(rb, x, y, i, r.bBroadcast))
		}
		return c
	})
	return out, nil
}

func add(x, y sample.Sample) sample.Sample { return x + y }
func sub(x, y sample.Sample) sample.Sample { return x - y }
func mul(x, y sample.Sample) sample.Sample { return x * y }
func div(x, y sample.Sample) sample.Sample { return x / y }
func minf(x, y sample.Sample) sample.Sample {
	if x < y {
		return x
	}
	return y
}
func maxf(x, y sample.Sample) sample.Sample {
	if x > y {
		return x
	}
	return y
}
func absDiff(x, y sample.Sample) sample.Sample    { return sample.Abs(x - y) }
func squaredDiff(x, y sample.Sample) sample.Sample { d := x - y; return d * d }

// Add, Sub, Mul, Div, Min, Max, AbsDiff, SquaredDiff are the primitive zip
// pixel algebra ops.
func Add(a, b Operand) (Operand, error)         { return Zip(a, b, add) }
func Sub(a, b Operand) (Operand, error)         { return Zip(a, b, sub) }
func Mul(a, b Operand) (Operand, error)         { return Zip(a, b, mul) }
func Div(a, b Operand) (Operand, error)         { return Zip(a, b, div) }
func Min(a, b Operand) (Operand, error)         { return Zip(a, b, minf) }
func Max(a, b Operand) (Operand, error)         { return Zip(a, b, maxf) }
func AbsDiff(a, b Operand) (Operand, error)     { return Zip(a, b, absDiff) }
func SquaredDiff(a, b Operand) (Operand, error) { return Zip(a, b, squaredDiff) }

// ZipReduce folds all pixels of a zip(a,b,fZip) through fReduce over an
// accumulator, row-major. For non-associative fReduce the result depends
// on that order.
func ZipReduce(a, b Operand, fZip func(x, y sample.Sample) sample.Sample, fReduce func(acc, v sample.Sample) sample.Sample) (colour.Colour, error) {
	zipped, err := Zip(a, b, fZip)
	if err != nil {
		return colour.Colour{}, err
	}

	img, isImage := asImage(zipped)
	if !isImage {
		return zipped.(constOperand).C, nil
	}

	n := img.Total()
	acc := img.At(0, 0)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if x == 0 && y == 0 {
				continue
			}
			px := img.At(x, y)
			for c := 0; c < n; c++ {
				acc.V[c] = fReduce(acc.V[c], px.V[c])
			}
		}
	}
	return acc, nil
}

// Map produces a new Image2D of the given destination arity by applying fn
// to every source pixel (and its coordinate).
func Map(img *image2d.Image2D, dstChans int, dstAlpha bool, fn func(c colour.Colour, x, y int) colour.Colour) *image2d.Image2D {
	return image2d.NewFromFn(img.Width, img.Height, dstChans, dstAlpha, func(x, y int) colour.Colour {
		return fn(img.At(x, y), x, y)
	})
}

// BlendNoDestAlpha composites top (with alpha) over base (without alpha),
// pixel-wise. base and top must share size if both are images.
func BlendNoDestAlpha(base, top Operand) (Operand, error) {
	w, h, isImage, err := sizeCheck(base, top)
	if err != nil {
		return nil, err
	}
	if base.HasAlpha() || !top.HasAlpha() || base.Channels() != top.Channels() {
		return nil, ierr.ErrChannelMismatch
	}
	if !isImage {
		out, err := colour.BlendNoDestAlpha(base.At(0, 0), top.At(0, 0))
		if err != nil {
			return nil, err
		}
		return Const(out), nil
	}
	out := image2d.NewFromFn(w, h, base.Channels(), false, func(x, y int) colour.Colour {
		c, _ := colour.BlendNoDestAlpha(base.At(x, y), top.At(x, y))
		return c
	})
	return out, nil
}

// Blend composites top over base, pixel-wise, both carrying alpha.
func Blend(base, top Operand) (Operand, error) {
	w, h, isImage, err := sizeCheck(base, top)
	if err != nil {
		return nil, err
	}
	if !base.HasAlpha() || !top.HasAlpha() || base.Channels() != top.Channels() {
		return nil, ierr.ErrChannelMismatch
	}
	if !isImage {
		out, err := colour.Blend(base.At(0, 0), top.At(0, 0))
		if err != nil {
			return nil, err
		}
		return Const(out), nil
	}
	out := image2d.NewFromFn(w, h, base.Channels(), true, func(x, y int) colour.Colour {
		c, _ := colour.Blend(base.At(x, y), top.At(x, y))
		return c
	})
	return out, nil
}
