package image2d

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
)

func TestMakeAndAt(t *testing.T) {
	t.Parallel()

	img := New(2, 1, 1, false, colour.Gray(0.5))
	if img.Width != 2 || img.Height != 1 {
		t.Fatalf("bad dims")
	}
	got := img.At(0, 0)
	if got.V[0] != 0.5 {
		t.Fatalf("At(0,0) = %v, want 0.5", got.V[0])
	}
}

func TestCropNegativeOffsetFill(t *testing.T) {
	t.Parallel()

	src := NewFromFn(100, 100, 3, false, func(x, y int) colour.Colour {
		return colour.RGB(float32(x)/100, float32(y)/100, 0)
	})

	fill := colour.RGB(0, 0, 0)
	out := src.Crop(-10, -10, 20, 20, &fill)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := out.At(x, y)
			if c.V[0] != 0 || c.V[1] != 0 || c.V[2] != 0 {
				t.Fatalf("top-left fill region at (%d,%d) = %v, want zero", x, y, c)
			}
		}
	}

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			got := out.At(x+10, y+10)
			want := src.At(x, y)
			if got != want {
				t.Fatalf("bottom-right region at (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBoxDownsampleAverages(t *testing.T) {
	t.Parallel()

	// 4x4x4 single-channel volume slice approximated as a 4x4 image of
	// constant value, matching the expected box-average result for a flat volume.
	img := New(4, 4, 1, false, colour.Gray(1))
	mip1 := img.BoxDownsample()
	if mip1.Width != 2 || mip1.Height != 2 {
		t.Fatalf("mip1 dims = %dx%d, want 2x2", mip1.Width, mip1.Height)
	}
	if mip1.At(0, 0).V[0] != 1 {
		t.Fatalf("mip1 value = %v, want 1", mip1.At(0, 0).V[0])
	}

	mip2 := mip1.BoxDownsample()
	if mip2.Width != 1 || mip2.Height != 1 {
		t.Fatalf("mip2 dims = %dx%d, want 1x1", mip2.Width, mip2.Height)
	}
}

func TestFlipMirror(t *testing.T) {
	t.Parallel()

	img := NewFromFn(2, 2, 1, false, func(x, y int) colour.Colour {
		return colour.Gray(float32(y*2 + x))
	})

	flipped := img.Flip()
	if flipped.At(0, 0).V[0] != 2 || flipped.At(0, 1).V[0] != 0 {
		t.Fatalf("Flip wrong: %v %v", flipped.At(0, 0), flipped.At(0, 1))
	}

	mirrored := img.Mirror()
	if mirrored.At(0, 0).V[0] != 1 || mirrored.At(1, 0).V[0] != 0 {
		t.Fatalf("Mirror wrong: %v %v", mirrored.At(0, 0), mirrored.At(1, 0))
	}
}
