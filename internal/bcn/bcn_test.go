package bcn

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func solidImage(w, h, chans int, alpha bool, c colour.Colour) *image2d.Image2D {
	return image2d.New(w, h, chans, alpha, c)
}

func TestBC1RoundTripSolidBlock(t *testing.T) {
	t.Parallel()

	img := solidImage(4, 4, 3, false, colour.RGB(1, 0, 0))
	data, err := EncodeBC1(img)
	if err != nil {
		t.Fatalf("EncodeBC1: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("BC1 4x4 block size = %d, want 8", len(data))
	}
	out, err := DecodeBC1(data, 4, 4, false)
	if err != nil {
		t.Fatalf("DecodeBC1: %v", err)
	}
	got := out.At(0, 0)
	if got.V[0] < 0.95 || got.V[1] > 0.05 || got.V[2] > 0.05 {
		t.Fatalf("BC1 round trip of solid red = %v", got)
	}
}

func TestBC3PreservesAlphaGradient(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(4, 4, 3, true, func(x, y int) colour.Colour {
		return colour.RGBA(0.2, 0.4, 0.6, float32(x)/3)
	})
	data, err := EncodeBC3(img)
	if err != nil {
		t.Fatalf("EncodeBC3: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("BC3 block size = %d, want 16", len(data))
	}
	out, err := DecodeBC3(data, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC3: %v", err)
	}
	a0 := out.At(0, 0).V[3]
	a3 := out.At(3, 0).V[3]
	if a0 >= a3 {
		t.Fatalf("BC3 alpha gradient not preserved: a0=%v a3=%v", a0, a3)
	}
}

func TestBC4SingleChannel(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(4, 4, 1, false, func(x, y int) colour.Colour {
		return colour.Gray(float32(x) / 3)
	})
	data, err := EncodeBC4(img)
	if err != nil {
		t.Fatalf("EncodeBC4: %v", err)
	}
	out, err := DecodeBC4(data, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC4: %v", err)
	}
	if out.At(0, 0).V[0] >= out.At(3, 0).V[0] {
		t.Fatal("BC4 did not preserve monotonic gradient")
	}
}

func TestBC5TwoChannelOrder(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(4, 4, 2, false, func(x, y int) colour.Colour {
		return colour.New(2, false, float32(x)/3, float32(y)/3)
	})
	data, err := EncodeBC5(img)
	if err != nil {
		t.Fatalf("EncodeBC5: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("BC5 block size = %d, want 16", len(data))
	}
	out, err := DecodeBC5(data, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC5: %v", err)
	}
	if out.At(3, 0).V[0] <= out.At(0, 0).V[0] {
		t.Fatal("BC5 X channel gradient not preserved")
	}
	if out.At(0, 3).V[1] <= out.At(0, 0).V[1] {
		t.Fatal("BC5 Y channel gradient not preserved")
	}
}

func TestBC2AlphaScalingNotBitExact(t *testing.T) {
	t.Parallel()

	img := solidImage(4, 4, 3, true, colour.RGBA(0.5, 0.5, 0.5, 1))
	data, err := EncodeBC2(img)
	if err != nil {
		t.Fatalf("EncodeBC2: %v", err)
	}
	out, err := DecodeBC2(data, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC2: %v", err)
	}
	// nibble 15 decodes to (15*16)/255 = 0.9411..., not 1.0: the documented
	// non-bit-exact quirk.
	got := out.At(0, 0).V[3]
	if got >= 1.0 {
		t.Fatalf("BC2 alpha=1 round trip = %v, want < 1 (documented lossy scaling)", got)
	}
}

func TestExpectedDataLength(t *testing.T) {
	t.Parallel()

	if got := ExpectedDataLength(FormatBC1, 8, 8); got != 32 {
		t.Fatalf("BC1 8x8 = %d, want 32", got)
	}
	if got := ExpectedDataLength(FormatBC3, 8, 8); got != 64 {
		t.Fatalf("BC3 8x8 = %d, want 64", got)
	}
	if got := ExpectedDataLength(FormatUnknown, 8, 8); got != -1 {
		t.Fatal("unknown format should report -1")
	}
}
