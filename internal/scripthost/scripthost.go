// Package scripthost is the out-of-scope scripting collaborator's
// contract shim: it proves the shape a real interpreter
// would call into without implementing one. Grounded on
// trunk/luaimg/interpreter.cpp's parse_with_return, which first tries
// to compile a snippet as an expression by prepending "return ", and on
// a syntax error falls back to compiling it as a bare statement; Parse
// here mirrors that two-stage affordance over a tiny verb-argument
// snippet grammar instead of real Lua, and Registry is the command
// dispatch table a real interpreter's image namespace would bind to.
package scripthost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/convolve"
	"github.com/grit-engine/luaimg-go/internal/geomops"
	"github.com/grit-engine/luaimg-go/internal/image2d"
)

// Mode records which of the two parse stages produced a Snippet.
type Mode int

const (
	// ModeExpression is produced by the "prepend return" first attempt:
	// a call-expression form, verb(arg, arg, ...).
	ModeExpression Mode = iota
	// ModeStatement is the fallback: bare whitespace-separated verb and
	// arguments, with no implied return value.
	ModeStatement
)

// Snippet is a parsed command: a verb name plus string arguments.
type Snippet struct {
	Verb string
	Args []string
	Mode Mode
}

// Parse mirrors parse_with_return: first try the expression form
// (verb(a, b, c)); if that doesn't parse, fall back to the bare
// statement form (verb a b c). Both forms are accepted by callers as a
// Snippet; Mode only records which stage produced it.
func Parse(input string) (Snippet, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Snippet{}, fmt.Errorf("empty snippet")
	}
	if s, err := parseExpression(input); err == nil {
		return s, nil
	}
	return parseStatement(input)
}

func parseExpression(input string) (Snippet, error) {
	open := strings.IndexByte(input, '(')
	if open < 0 || !strings.HasSuffix(input, ")") {
		return Snippet{}, fmt.Errorf("not an expression: %q", input)
	}
	verb := strings.TrimSpace(input[:open])
	if verb == "" {
		return Snippet{}, fmt.Errorf("missing verb in %q", input)
	}
	inner := strings.TrimSpace(input[open+1 : len(input)-1])
	var args []string
	if inner != "" {
		for _, a := range strings.Split(inner, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}
	return Snippet{Verb: verb, Args: args, Mode: ModeExpression}, nil
}

func parseStatement(input string) (Snippet, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Snippet{}, fmt.Errorf("empty statement")
	}
	return Snippet{Verb: fields[0], Args: fields[1:], Mode: ModeStatement}, nil
}

// Command implements one verb of the dispatch table: it takes the
// current image and the snippet's arguments and returns a new image.
type Command func(img *image2d.Image2D, args []string) (*image2d.Image2D, error)

// Registry maps verb names to the operations a real interpreter's image
// namespace would expose.
var Registry = map[string]Command{
	"flip":     func(img *image2d.Image2D, _ []string) (*image2d.Image2D, error) { return img.Flip(), nil },
	"mirror":   func(img *image2d.Image2D, _ []string) (*image2d.Image2D, error) { return img.Mirror(), nil },
	"scale":    cmdScale,
	"rotate":   cmdRotate,
	"gaussian": cmdGaussian,
	"fill":     cmdFill,
}

func cmdScale(img *image2d.Image2D, args []string) (*image2d.Image2D, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("scale wants 2 args (width, height), got %d", len(args))
	}
	w, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("scale width: %w", err)
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("scale height: %w", err)
	}
	return geomops.Scale(img, w, h, geomops.FilterBilinear)
}

func cmdRotate(img *image2d.Image2D, args []string) (*image2d.Image2D, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("rotate wants 1 arg (radians), got %d", len(args))
	}
	angle, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("rotate angle: %w", err)
	}
	fill := colour.New(img.Chans, img.Alpha, make([]float32, img.Total())...)
	return geomops.Rotate(img, angle, &fill), nil
}

func cmdGaussian(img *image2d.Image2D, args []string) (*image2d.Image2D, error) {
	n := 5
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("gaussian size: %w", err)
		}
		n = v
	}
	row, err := convolve.Gaussian(n)
	if err != nil {
		return nil, err
	}
	return convolve.ConvolveSep(img, row, false, false)
}

func cmdFill(img *image2d.Image2D, args []string) (*image2d.Image2D, error) {
	if len(args) != img.Total() {
		return nil, fmt.Errorf("fill wants %d args, got %d", img.Total(), len(args))
	}
	values := make([]float32, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("fill arg %d: %w", i, err)
		}
		values[i] = float32(v)
	}
	c := colour.New(img.Chans, img.Alpha, values...)
	return image2d.New(img.Width, img.Height, img.Chans, img.Alpha, c), nil
}

// Eval parses and dispatches a single snippet against img.
func Eval(img *image2d.Image2D, input string) (*image2d.Image2D, error) {
	s, err := Parse(input)
	if err != nil {
		return nil, fmt.Errorf("parsing snippet: %w", err)
	}
	cmd, ok := Registry[s.Verb]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", s.Verb)
	}
	return cmd(img, s.Args)
}
