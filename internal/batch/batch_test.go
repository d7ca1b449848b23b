package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/imageio"
)

func TestParseManifestBareList(t *testing.T) {
	t.Parallel()
	data := []byte(`
- input: a.png
  output: a.tga
- input: b.png
  output: b.tga
  format: TGA
`)
	jobs, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len(jobs) = %d, want 2", len(jobs))
	}
	if jobs[1].Format != "TGA" {
		t.Fatalf("jobs[1].Format = %q, want TGA", jobs[1].Format)
	}
}

func TestParseManifestWrappedJobs(t *testing.T) {
	t.Parallel()
	data := []byte(`
jobs:
  - input: a.sfi
    output: a.png
`)
	jobs, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Input != "a.sfi" {
		t.Fatalf("jobs = %+v", jobs)
	}
}

func TestRunManifestEndToEnd(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	src := image2d.New(2, 2, 3, false, colour.RGB(0.25, 0.5, 0.75))
	if err := imageio.Save(filepath.Join(dir, "in.sfi"), src, ""); err != nil {
		t.Fatalf("seeding input: %v", err)
	}

	manifestPath := filepath.Join(dir, "manifest.yaml")
	manifest := "jobs:\n  - input: in.sfi\n    output: out.sfi\n"
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	if err := RunManifest(manifestPath); err != nil {
		t.Fatalf("RunManifest: %v", err)
	}

	out, err := imageio.Load(filepath.Join(dir, "out.sfi"))
	if err != nil {
		t.Fatalf("loading output: %v", err)
	}
	c := out.At(0, 0)
	if c.V[0] < 0.24 || c.V[0] > 0.26 {
		t.Fatalf("round-tripped channel 0 = %v, want ~0.25", c.V[0])
	}
}

func TestRunJobsStopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	jobs := []Job{
		{Input: "does-not-exist.sfi", Output: "out.sfi"},
		{Input: "also-does-not-exist.sfi", Output: "out2.sfi"},
	}
	idx, err := RunJobs(jobs)
	if err == nil {
		t.Fatal("expected error")
	}
	if idx != 0 {
		t.Fatalf("failing index = %d, want 0", idx)
	}
}
