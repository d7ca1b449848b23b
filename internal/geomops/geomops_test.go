package geomops

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func TestScalePreservesSize(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(4, 4, 3, false, func(x, y int) colour.Colour {
		return colour.RGB(float32(x)/4, float32(y)/4, 0)
	})
	out, err := Scale(img, 8, 2, FilterBilinear)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if out.Width != 8 || out.Height != 2 {
		t.Fatalf("Scale dims = %dx%d, want 8x2", out.Width, out.Height)
	}
}

func TestScaleRejectsZeroSize(t *testing.T) {
	t.Parallel()
	img := image2d.New(2, 2, 1, false, colour.Gray(0))
	if _, err := Scale(img, 0, 4, FilterBox); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	t.Parallel()

	img := image2d.New(5, 5, 1, false, colour.Gray(0))
	DrawLine(img, 0, 0, 4, 0, 1, colour.Gray(1))
	if img.At(0, 0).V[0] != 1 || img.At(4, 0).V[0] != 1 {
		t.Fatal("DrawLine did not set endpoints")
	}
}

func TestDrawImageOpaqueCopy(t *testing.T) {
	t.Parallel()

	dst := image2d.New(4, 4, 1, false, colour.Gray(0))
	src := image2d.New(2, 2, 1, false, colour.Gray(0.5))
	if err := DrawImage(dst, src, 1, 1, false); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	if dst.At(1, 1).V[0] != 0.5 {
		t.Fatalf("DrawImage did not composite: %v", dst.At(1, 1))
	}
	if dst.At(0, 0).V[0] != 0 {
		t.Fatal("DrawImage touched pixel outside src region")
	}
}

func TestDrawImageWrap(t *testing.T) {
	t.Parallel()

	dst := image2d.New(4, 4, 1, false, colour.Gray(0))
	src := image2d.New(2, 2, 1, false, colour.Gray(1))
	if err := DrawImage(dst, src, 3, 3, true); err != nil {
		t.Fatalf("DrawImage wrap: %v", err)
	}
	if dst.At(0, 0).V[0] != 1 {
		t.Fatalf("wrapped draw missed (0,0): %v", dst.At(0, 0))
	}
}

func TestRotateIdentityZeroAngle(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(4, 4, 1, false, func(x, y int) colour.Colour {
		return colour.Gray(float32(x+y) / 8)
	})
	out := Rotate(img, 0, nil)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.At(x, y).V[0]
			want := img.At(x, y).V[0]
			if diff := got - want; diff > 1e-4 || diff < -1e-4 {
				t.Fatalf("Rotate(0) at (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}
