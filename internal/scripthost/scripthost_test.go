package scripthost

import (
	"testing"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

func TestParseExpressionForm(t *testing.T) {
	t.Parallel()
	s, err := Parse("scale(4, 8)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Mode != ModeExpression {
		t.Fatalf("Mode = %v, want ModeExpression", s.Mode)
	}
	if s.Verb != "scale" || len(s.Args) != 2 || s.Args[0] != "4" || s.Args[1] != "8" {
		t.Fatalf("parsed snippet = %+v", s)
	}
}

func TestParseFallsBackToStatementForm(t *testing.T) {
	t.Parallel()
	// No trailing ')' so the expression attempt fails and the raw
	// statement form is used instead, mirroring parse_with_return's
	// retry-on-syntax-error behaviour.
	s, err := Parse("flip")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Mode != ModeStatement {
		t.Fatalf("Mode = %v, want ModeStatement", s.Mode)
	}
	if s.Verb != "flip" || len(s.Args) != 0 {
		t.Fatalf("parsed snippet = %+v", s)
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	t.Parallel()
	if _, err := Parse("   "); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEvalMirror(t *testing.T) {
	t.Parallel()
	img := image2d.NewFromFn(2, 1, 1, false, func(x, y int) colour.Colour {
		if x == 0 {
			return colour.Gray(0)
		}
		return colour.Gray(1)
	})
	out, err := Eval(img, "mirror")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out.At(0, 0).V[0] != 1 || out.At(1, 0).V[0] != 0 {
		t.Fatalf("mirror did not reorder columns as expected")
	}
}

func TestEvalScaleExpressionForm(t *testing.T) {
	t.Parallel()
	img := image2d.New(4, 4, 3, false, colour.RGB(0.2, 0.4, 0.6))
	out, err := Eval(img, "scale(2, 2)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", out.Width, out.Height)
	}
}

func TestEvalRotate(t *testing.T) {
	t.Parallel()
	img := image2d.New(4, 4, 3, false, colour.RGB(0.2, 0.4, 0.6))
	out, err := Eval(img, "rotate(1.5708)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out.Width != img.Width || out.Height != img.Height {
		t.Fatalf("rotate changed image size unexpectedly: %dx%d", out.Width, out.Height)
	}
}

func TestEvalGaussian(t *testing.T) {
	t.Parallel()
	img := image2d.NewFromFn(8, 8, 1, false, func(x, y int) colour.Colour {
		if x == 4 && y == 4 {
			return colour.Gray(1)
		}
		return colour.Gray(0)
	})
	out, err := Eval(img, "gaussian(3)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out.Width != img.Width || out.Height != img.Height {
		t.Fatalf("gaussian changed image size unexpectedly")
	}
	// The blur should spread some energy to the neighbour of the spike.
	if out.At(3, 4).V[0] <= 0 {
		t.Fatalf("expected blur to spread into neighbouring pixel, got %v", out.At(3, 4).V[0])
	}
}

func TestEvalFill(t *testing.T) {
	t.Parallel()
	img := image2d.New(2, 2, 3, false, colour.RGB(0, 0, 0))
	out, err := Eval(img, "fill(0.1, 0.2, 0.3)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	c := out.At(1, 1)
	if c.V[0] < 0.09 || c.V[0] > 0.11 {
		t.Fatalf("fill channel 0 = %v, want ~0.1", c.V[0])
	}
}

func TestEvalUnknownVerb(t *testing.T) {
	t.Parallel()
	img := image2d.New(1, 1, 1, false, colour.Gray(0))
	if _, err := Eval(img, "nosuchverb"); err == nil {
		t.Fatal("expected error for unknown verb")
	}
}

func TestEvalBadArgCount(t *testing.T) {
	t.Parallel()
	img := image2d.New(1, 1, 1, false, colour.Gray(0))
	if _, err := Eval(img, "scale(4)"); err == nil {
		t.Fatal("expected error for wrong argument count")
	}
}
