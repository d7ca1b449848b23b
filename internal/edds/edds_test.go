package edds

import (
	"bytes"
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/dds"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func solidRGB(w, h int, r, g, b float32) *image2d.Image2D {
	return image2d.New(w, h, 3, false, colour.RGB(r, g, b))
}

func mipChain(size int) dds.MipChain {
	var chain dds.MipChain
	for size >= 1 {
		chain = append(chain, solidRGB(size, size, 0.25, 0.5, 0.75))
		if size == 1 {
			break
		}
		size /= 2
	}
	return chain
}

func TestRoundTripBC1MipChain(t *testing.T) {
	t.Parallel()

	s := &dds.Surface{
		Topology:   dds.TopologySimple,
		FormatName: "BC1",
		Faces:      []dds.MipChain{mipChain(16)},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Topology != dds.TopologySimple {
		t.Fatalf("topology = %v, want Simple", out.Topology)
	}
	if len(out.Faces[0]) != 5 {
		t.Fatalf("mip count = %d, want 5", len(out.Faces[0]))
	}
	wantSizes := []int{16, 8, 4, 2, 1}
	for i, lvl := range out.Faces[0] {
		if lvl.Width != wantSizes[i] || lvl.Height != wantSizes[i] {
			t.Fatalf("level %d size = %dx%d, want %dx%d", i, lvl.Width, lvl.Height, wantSizes[i], wantSizes[i])
		}
	}
}

func TestRoundTripUncompressedSmallImage(t *testing.T) {
	t.Parallel()

	// Small enough payload to exercise the COPY fallback path.
	s := &dds.Surface{
		Topology:   dds.TopologySimple,
		FormatName: "A8R8G8B8",
		Faces:      []dds.MipChain{{solidRGB(2, 2, 1, 1, 1)}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	c := out.Faces[0][0].At(0, 0)
	if c.V[0] < 0.99 || c.V[1] < 0.99 || c.V[2] < 0.99 {
		t.Fatalf("decoded colour = %v, want near-white", c)
	}
}

func TestCompressBlockFallsBackToCopyForSmallData(t *testing.T) {
	t.Parallel()
	data := bytes.Repeat([]byte{0x42}, 100)
	block, err := compressBlock(data)
	if err != nil {
		t.Fatalf("compressBlock: %v", err)
	}
	if block.Magic != BlockMagicCOPY {
		t.Fatalf("Magic = %q, want COPY for small input", block.Magic)
	}
}

func TestCompressDecompressRoundTripLZ4(t *testing.T) {
	t.Parallel()
	// Large, compressible payload so it takes the LZ4 path.
	data := bytes.Repeat([]byte("large repeating payload for lz4 chunking "), 4000)

	block, err := compressBlock(data)
	if err != nil {
		t.Fatalf("compressBlock: %v", err)
	}
	if block.Magic != BlockMagicLZ4 {
		t.Fatalf("Magic = %q, want LZ4 for large compressible input", block.Magic)
	}

	out, err := decompressBlock(block, len(data))
	if err != nil {
		t.Fatalf("decompressBlock: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("decompressed data does not match original")
	}
}
