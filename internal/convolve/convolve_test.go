package convolve

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func TestUnitKernelIdentity(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(3, 3, 1, false, func(x, y int) colour.Colour {
		return colour.Gray(float32(y*3 + x))
	})
	k, err := NewKernel(1, 1, []float32{1})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	out, err := Convolve(img, k, false, false)
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

func TestGaussianSumsToOne(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 3, 5, 7} {
		row, err := Gaussian(n)
		if err != nil {
			t.Fatalf("Gaussian(%d): %v", n, err)
		}
		var sum float32
		for _, v := range row {
			sum += v
		}
		if sum < 0.999 || sum > 1.001 {
			t.Fatalf("Gaussian(%d) sums to %v, want 1", n, sum)
		}
	}
}

func TestGaussianRejectsEven(t *testing.T) {
	t.Parallel()
	if _, err := Gaussian(4); err == nil {
		t.Fatal("expected ErrKernelShape for even size")
	}
}

func TestConvolveWrap(t *testing.T) {
	t.Parallel()

	// A 3x1 image with a single bright pixel at x=0; a [0,0,1] kernel
	// reading one column to the right should wrap and pick up that pixel
	// when sampling from the rightmost column.
	img := image2d.NewFromFn(3, 1, 1, false, func(x, y int) colour.Colour {
		if x == 0 {
			return colour.Gray(1)
		}
		return colour.Gray(0)
	})
	k, err := NewKernel(3, 1, []float32{0, 0, 1})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	out, err := Convolve(img, k, true, true)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	if out.At(2, 0).V[0] != 1 {
		t.Fatalf("wrap sample at x=2 = %v, want 1", out.At(2, 0).V[0])
	}
}

func TestNormaliseBalancesPositiveNegative(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(2, 1, 1, false, func(x, y int) colour.Colour {
		if x == 0 {
			return colour.Gray(2)
		}
		return colour.Gray(-4)
	})
	out := Normalise(img)
	if out.At(0, 0).V[0] != 1 {
		t.Fatalf("positive side = %v, want 1", out.At(0, 0).V[0])
	}
	if out.At(1, 0).V[0] != -1 {
		t.Fatalf("negative side = %v, want -1", out.At(1, 0).V[0])
	}
}
