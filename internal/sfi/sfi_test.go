package sfi

import (
	"bytes"
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func TestRoundTripSampleForSample(t *testing.T) {
	t.Parallel()

	img := image2d.NewFromFn(5, 3, 3, true, func(x, y int) colour.Colour {
		return colour.RGBA(float32(x)*0.1, float32(y)*0.2, 0.5, 1-float32(x)*0.05)
	})

	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out.Width != img.Width || out.Height != img.Height || out.Chans != img.Chans || out.Alpha != img.Alpha {
		t.Fatalf("shape mismatch: got %dx%dx%d alpha=%v, want %dx%dx%d alpha=%v",
			out.Width, out.Height, out.Chans, out.Alpha, img.Width, img.Height, img.Chans, img.Alpha)
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			a, b := img.At(x, y), out.At(x, y)
			for i := 0; i < a.Total(); i++ {
				if a.V[i] != b.V[i] {
					t.Fatalf("sample mismatch at (%d,%d)[%d]: %v != %v", x, y, i, a.V[i], b.V[i])
				}
			}
		}
	}
}

func TestGrayscaleNoAlphaRoundTrip(t *testing.T) {
	t.Parallel()

	img := image2d.New(2, 2, 1, false, colour.Gray(0.25))
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Alpha {
		t.Fatal("decoded image has alpha, want none")
	}
	if out.At(0, 0).V[0] != 0.25 {
		t.Fatalf("decoded sample = %v, want 0.25", out.At(0, 0).V[0])
	}
}
