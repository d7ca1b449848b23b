package pixelalg

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/convolve"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func imgRGB(w, h int, fn func(x, y int) colour.Colour) *image2d.Image2D {
	return image2d.NewFromFn(w, h, 3, false, fn)
}

func TestZipCommutative(t *testing.T) {
	t.Parallel()

	a := imgRGB(2, 2, func(x, y int) colour.Colour { return colour.RGB(0.1, 0.2, 0.3) })
	b := imgRGB(2, 2, func(x, y int) colour.Colour { return colour.RGB(0.4, 0.0, 0.2) })

	ab, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	ba, err := Add(b, a)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	abImg := ab.(*image2d.Image2D)
	baImg := ba.(*image2d.Image2D)
	if abImg.At(0, 0) != baImg.At(0, 0) {
		t.Fatalf("Add not commutative: %v vs %v", abImg.At(0, 0), baImg.At(0, 0))
	}
}

func TestMaskBroadcast(t *testing.T) {
	t.Parallel()

	img := imgRGB(2, 2, func(x, y int) colour.Colour { return colour.RGB(0.2, 0.4, 0.6) })
	mask := Const(colour.Gray(0.5))

	out, err := Mul(img, mask)
	if err != nil {
		t.Fatalf("Mul broadcast: %v", err)
	}
	got := out.(*image2d.Image2D).At(0, 0)
	want := colour.RGB(0.1, 0.2, 0.3)
	for i := 0; i < 3; i++ {
		if absf(got.V[i]-want.V[i]) > 1e-6 {
			t.Fatalf("broadcast mul = %v, want %v", got, want)
		}
	}
}

func TestAlphaPromotion(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(1, 1, 3, true, func(x, y int) colour.Colour { return colour.RGBA(0.5, 0.5, 0.5, 0.5) })
	c := Const(colour.RGB(0.1, 0.1, 0.1)) // no alpha, same colour arity

	out, err := Add(img, c)
	if err != nil {
		t.Fatalf("Add with alpha promotion: %v", err)
	}
	got := out.(*image2d.Image2D).At(0, 0)
	if !got.Alpha || absf(got.V[3]-1.5) > 1e-6 {
		t.Fatalf("promoted alpha add = %v, want alpha 1.5 (0.5 image + 1.0 synthesised)", got)
	}
}

func TestChannelMismatchError(t *testing.T) {
	t.Parallel()

	a := imgRGB(1, 1, func(x, y int) colour.Colour { return colour.RGB(0, 0, 0) })
	b := Const(colour.GrayAlpha(0.5, 0.5)) // 2 total channels, not 1-no-alpha, not 3

	if _, err := Add(a, b); err == nil {
		t.Fatal("expected ChannelMismatch")
	}
}

func TestSizeMismatchError(t *testing.T) {
	t.Parallel()

	a := imgRGB(2, 2, func(x, y int) colour.Colour { return colour.RGB(0, 0, 0) })
	b := imgRGB(3, 3, func(x, y int) colour.Colour { return colour.RGB(0, 0, 0) })

	if _, err := Add(a, b); err == nil {
		t.Fatal("expected SizeMismatch")
	}
}

func TestSwizzleInverse(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(2, 2, 3, true, func(x, y int) colour.Colour {
		return colour.RGBA(float32(x), float32(y), 0.5, 0.25)
	})

	out, err := Swizzle(img, "xyzW")
	if err != nil {
		t.Fatalf("Swizzle: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if out.At(x, y) != img.At(x, y) {
				t.Fatalf("Swizzle xyzW at (%d,%d) = %v, want %v", x, y, out.At(x, y), img.At(x, y))
			}
		}
	}
}

func TestConvolutionUnitKernelIdentity(t *testing.T) {
	t.Parallel()

	img := imgRGB(3, 3, func(x, y int) colour.Colour { return colour.RGB(float32(x), float32(y), 0.5) })
	k, err := convolve.NewKernel(1, 1, []float32{1})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	out, err := convolve.Convolve(img, k, true, true)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if out.At(x, y) != img.At(x, y) {
				t.Fatalf("unit kernel changed pixel (%d,%d): got %v want %v", x, y, out.At(x, y), img.At(x, y))
			}
		}
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
