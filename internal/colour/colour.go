// Package colour implements the Colour<C,A> tuple and its per-channel
// algebra. C in {1,2,3,4} is the number of colour channels, A in {0,1}
// is alpha presence, and C+A <= 4; the pair is carried as runtime tags
// rather than compile-time generics (see DESIGN.md, "(C,A) generics").
package colour

import (
	"math"

	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/sample"
)

// Colour is an immutable-by-convention tuple of Chans+alpha samples.
// Channel order is colour-first, alpha last.
type Colour struct {
	V     [4]sample.Sample
	Chans int // colour channel count, 1..4
	Alpha bool
}

// Total returns the number of stored samples, Chans+alpha.
func (c Colour) Total() int {
	if c.Alpha {
		return c.Chans + 1
	}
	return c.Chans
}

// AlphaIndex returns the index of the alpha sample, or -1 if none.
func (c Colour) AlphaIndex() int {
	if !c.Alpha {
		return -1
	}
	return c.Chans
}

// A returns the alpha sample, or 1 if the colour carries no alpha.
func (c Colour) A() sample.Sample {
	if !c.Alpha {
		return 1
	}
	return c.V[c.Chans]
}

// New builds a Colour from exactly chans+alpha samples.
func New(chans int, alpha bool, v ...sample.Sample) Colour {
	c := Colour{Chans: chans, Alpha: alpha}
	n := chans
	if alpha {
		n++
	}
	for i := 0; i < n && i < len(v); i++ {
		c.V[i] = v[i]
	}
	return c
}

// Gray builds a 1-channel colour.
func Gray(v sample.Sample) Colour { return New(1, false, v) }

// GrayAlpha builds a 1-channel colour with alpha.
func GrayAlpha(v, a sample.Sample) Colour { return New(1, true, v, a) }

// RGB builds a 3-channel colour.
func RGB(r, g, b sample.Sample) Colour { return New(3, false, r, g, b) }

// RGBA builds a 3-channel colour with alpha.
func RGBA(r, g, b, a sample.Sample) Colour { return New(3, true, r, g, b, a) }

// sameShape reports whether a and b have identical (Chans, Alpha).
func sameShape(a, b Colour) bool {
	return a.Chans == b.Chans && a.Alpha == b.Alpha
}

// zip applies f channel-wise to two colours of identical shape.
func zip(a, b Colour, f func(x, y sample.Sample) sample.Sample) (Colour, error) {
	if !sameShape(a, b) {
		return Colour{}, ierr.ErrChannelMismatch
	}
	out := Colour{Chans: a.Chans, Alpha: a.Alpha}
	n := a.Total()
	for i := 0; i < n; i++ {
		out.V[i] = f(a.V[i], b.V[i])
	}
	return out, nil
}

// Add adds two colours channel-wise.
func Add(a, b Colour) (Colour, error) { return zip(a, b, func(x, y sample.Sample) sample.Sample { return x + y }) }

// Sub subtracts two colours channel-wise.
func Sub(a, b Colour) (Colour, error) { return zip(a, b, func(x, y sample.Sample) sample.Sample { return x - y }) }

// Mul multiplies two colours channel-wise.
func Mul(a, b Colour) (Colour, error) { return zip(a, b, func(x, y sample.Sample) sample.Sample { return x * y }) }

// Div divides two colours channel-wise.
func Div(a, b Colour) (Colour, error) { return zip(a, b, func(x, y sample.Sample) sample.Sample { return x / y }) }

// Min takes the channel-wise minimum.
func Min(a, b Colour) (Colour, error) {
	return zip(a, b, func(x, y sample.Sample) sample.Sample {
		if x < y {
			return x
		}
		return y
	})
}

// Max takes the channel-wise maximum.
func Max(a, b Colour) (Colour, error) {
	return zip(a, b, func(x, y sample.Sample) sample.Sample {
		if x > y {
			return x
		}
		return y
	})
}

// Pow raises a to the power of b, channel-wise.
func Pow(a, b Colour) (Colour, error) {
	return zip(a, b, func(x, y sample.Sample) sample.Sample { return sample.Sample(math.Pow(float64(x), float64(y))) })
}

// AbsDiff computes the channel-wise |a-b|.
func AbsDiff(a, b Colour) (Colour, error) {
	return zip(a, b, func(x, y sample.Sample) sample.Sample { return sample.Abs(x - y) })
}

// SquaredDiff computes the channel-wise (a-b)^2.
func SquaredDiff(a, b Colour) (Colour, error) {
	return zip(a, b, func(x, y sample.Sample) sample.Sample { d := x - y; return d * d })
}

// Abs returns the channel-wise absolute value.
func Abs(c Colour) Colour {
	out := c
	for i := 0; i < c.Total(); i++ {
		out.V[i] = sample.Abs(c.V[i])
	}
	return out
}

// Negate returns the channel-wise negation.
func Negate(c Colour) Colour {
	out := c
	for i := 0; i < c.Total(); i++ {
		out.V[i] = -c.V[i]
	}
	return out
}

// Lerp linearly interpolates every channel of a towards b by t.
func Lerp(a, b Colour, t sample.Sample) (Colour, error) {
	return zip(a, b, func(x, y sample.Sample) sample.Sample { return sample.Lerp(x, y, t) })
}

// BlendNoDestAlpha composites top (which carries alpha) over base (which
// does not); the result carries no alpha.
func BlendNoDestAlpha(base, top Colour) (Colour, error) {
	if top.Chans != base.Chans || base.Alpha || !top.Alpha {
		return Colour{}, ierr.ErrChannelMismatch
	}
	a := sample.Clamp01(top.A())
	out := Colour{Chans: base.Chans, Alpha: false}
	for i := 0; i < base.Chans; i++ {
		out.V[i] = (1-a)*base.V[i] + a*top.V[i]
	}
	return out, nil
}

// Blend composites top over base when both carry alpha ("over" operator).
func Blend(base, top Colour) (Colour, error) {
	if top.Chans != base.Chans || !base.Alpha || !top.Alpha {
		return Colour{}, ierr.ErrChannelMismatch
	}
	ta := sample.Clamp01(top.A())
	ba := sample.Clamp01(base.A())
	outA := 1 - (1-ta)*(1-ba)
	out := Colour{Chans: base.Chans, Alpha: true}
	if outA == 0 {
		return out, nil
	}
	w := ta / outA
	for i := 0; i < base.Chans; i++ {
		out.V[i] = (1-w)*base.V[i] + w*top.V[i]
	}
	out.V[base.Chans] = outA
	return out, nil
}

// WithAlpha returns a copy of c promoted to carry alpha a, keeping colour
// channels unchanged. Used when one side of a zip op is an alpha-less
// colour matched against an Image2D with alpha (see pixelalg).
func (c Colour) WithAlpha(a sample.Sample) Colour {
	out := Colour{Chans: c.Chans, Alpha: true, V: c.V}
	out.V[c.Chans] = a
	return out
}

// Broadcast repeats a single-channel, no-alpha colour's value across every
// sample of a colour of the given shape, including the alpha sample when
// alpha is true.
func (c Colour) Broadcast(chans int, alpha bool) Colour {
	out := Colour{Chans: chans, Alpha: alpha}
	for i := 0; i < chans; i++ {
		out.V[i] = c.V[0]
	}
	if alpha {
		out.V[chans] = c.V[0]
	}
	return out
}
