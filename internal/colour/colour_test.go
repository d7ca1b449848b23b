package colour

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/sample"
)

func TestZipCommutative(t *testing.T) {
	t.Parallel()

	a := RGB(0.1, 0.2, 0.3)
	b := RGB(0.4, 0.1, 0.0)

	ab, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add(a,b): %v", err)
	}
	ba, err := Add(b, a)
	if err != nil {
		t.Fatalf("Add(b,a): %v", err)
	}
	if ab != ba {
		t.Fatalf("Add not commutative: %v != %v", ab, ba)
	}
}

func TestBlendIdentity(t *testing.T) {
	t.Parallel()

	base := RGBA(0.2, 0.4, 0.6, 1)
	transparent := RGBA(1, 1, 1, 0)

	out, err := Blend(base, transparent)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	for i := 0; i < 3; i++ {
		if sample.Abs(out.V[i]-base.V[i]) > 1e-6 {
			t.Fatalf("Blend with transparent top changed colour: %v vs base %v", out, base)
		}
	}

	opaqueTop := RGBA(0.9, 0.1, 0.5, 1)
	out2, err := Blend(base, opaqueTop)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if out2.V[0] != opaqueTop.V[0] || out2.V[1] != opaqueTop.V[1] || out2.V[2] != opaqueTop.V[2] || out2.A() != 1 {
		t.Fatalf("Blend with opaque top = %v, want %v with alpha 1", out2, opaqueTop)
	}
}

func TestBlendNoDestAlpha(t *testing.T) {
	t.Parallel()

	base := RGB(0, 0, 0)
	top := RGBA(1, 1, 1, 0.5)

	out, err := BlendNoDestAlpha(base, top)
	if err != nil {
		t.Fatalf("BlendNoDestAlpha: %v", err)
	}
	for i := 0; i < 3; i++ {
		if sample.Abs(out.V[i]-0.5) > 1e-6 {
			t.Fatalf("BlendNoDestAlpha = %v, want ~0.5 per channel", out)
		}
	}
}

func TestChannelMismatch(t *testing.T) {
	t.Parallel()

	a := RGB(0, 0, 0)
	b := Gray(0.5)

	if _, err := Add(a, b); err == nil {
		t.Fatal("expected ChannelMismatch for 3-channel vs 1-channel zip")
	}
}
