package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/imageio"
)

func TestEvalLinesAppliesEachStep(t *testing.T) {
	t.Parallel()
	img := image2d.New(4, 4, 3, false, colour.RGB(0.2, 0.4, 0.6))
	var out bytes.Buffer
	result, err := evalLines(img, "scale(2, 2)\nmirror\n", &out)
	if err != nil {
		t.Fatalf("evalLines: %v", err)
	}
	if result.Width != 2 || result.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", result.Width, result.Height)
	}
}

func TestEvalLinesSkipsBlankAndCommentLines(t *testing.T) {
	t.Parallel()
	img := image2d.New(1, 1, 1, false, colour.Gray(0))
	var out bytes.Buffer
	result, err := evalLines(img, "\n# a comment\n   \n", &out)
	if err != nil {
		t.Fatalf("evalLines: %v", err)
	}
	if result != img {
		t.Fatal("expected image to be unchanged when every line is blank or a comment")
	}
}

func TestEvalLinesStopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	img := image2d.New(1, 1, 1, false, colour.Gray(0))
	var out bytes.Buffer
	_, err := evalLines(img, "fill(1)\nnosuchverb\nfill(0.5)\n", &out)
	if err == nil {
		t.Fatal("expected error from unknown verb")
	}
	if !strings.Contains(err.Error(), "nosuchverb") {
		t.Fatalf("error = %v, want it to mention the failing step", err)
	}
}

func TestRunScriptWithEvalAndOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.sfi")

	r := &Root{Eval: "fill(0.5, 0.5, 0.5)", Output: outPath}
	r.Input = ""
	var stdout bytes.Buffer
	if err := runScript(r, strings.NewReader(""), &stdout); err != nil {
		t.Fatalf("runScript: %v", err)
	}

	got, err := imageio.Load(outPath)
	if err != nil {
		t.Fatalf("loading output: %v", err)
	}
	c := got.At(0, 0)
	if c.V[0] < 0.49 || c.V[0] > 0.51 {
		t.Fatalf("channel 0 = %v, want ~0.5", c.V[0])
	}
}

func TestRunScriptRequiresAScriptSource(t *testing.T) {
	t.Parallel()
	r := &Root{}
	var stdout bytes.Buffer
	if err := runScript(r, strings.NewReader(""), &stdout); err == nil {
		t.Fatal("expected error when no script source is given")
	}
}
