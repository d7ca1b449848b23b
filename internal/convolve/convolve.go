// Package convolve implements 2D and separable convolution over Image2D,
// plus the gaussian kernel generator and positive/negative-balanced
// kernel normalisation, grounded on imageset-packer's box-filter
// resampling in internal/edds and generalised to arbitrary odd-sized
// kernels.
package convolve

import (
	"github.com/grit-engine/luaimg-go/internal/colour"
	"github.com/grit-engine/luaimg-go/internal/ierr"
	"github.com/grit-engine/luaimg-go/internal/image2d"
	"github.com/grit-engine/luaimg-go/internal/sample"
)

// Kernel is a row-major kw x kh grid of weights, kw and kh both odd.
type Kernel struct {
	W, H   int
	Weight []sample.Sample
}

func (k Kernel) at(x, y int) sample.Sample { return k.Weight[y*k.W+x] }

func validate(w, h int) error {
	if w < 1 || h < 1 || w%2 == 0 || h%2 == 0 {
		return ierr.ErrKernelShape
	}
	return nil
}

// NewKernel builds a kernel from a row-major weight slice; w and h must be
// odd and w*h == len(weights).
func NewKernel(w, h int, weights []sample.Sample) (Kernel, error) {
	if err := validate(w, h); err != nil {
		return Kernel{}, err
	}
	if len(weights) != w*h {
		return Kernel{}, ierr.ErrKernelShape
	}
	k := Kernel{W: w, H: h, Weight: make([]sample.Sample, len(weights))}
	copy(k.Weight, weights)
	return k, nil
}

// wrapSample resolves a possibly out-of-range coordinate for convolution:
// wrap-modulo if wrap is set, otherwise clamp to the image edge.
func wrapSample(img *image2d.Image2D, x, y int, wrapX, wrapY bool) colour.Colour {
	if wrapX {
		x = ((x % img.Width) + img.Width) % img.Width
	} else if x < 0 {
		x = 0
	} else if x >= img.Width {
		x = img.Width - 1
	}
	if wrapY {
		y = ((y % img.Height) + img.Height) % img.Height
	} else if y < 0 {
		y = 0
	} else if y >= img.Height {
		y = img.Height - 1
	}
	return img.At(x, y)
}

// Convolve applies a 2D kernel to img, sampling out-of-bounds pixels by
// wrap (wrapX/wrapY) or edge clamp. The kernel's centre is its middle cell.
func Convolve(img *image2d.Image2D, k Kernel, wrapX, wrapY bool) (*image2d.Image2D, error) {
	if k.W == 0 || k.H == 0 {
		return nil, ierr.ErrKernelShape
	}
	halfW, halfH := k.W/2, k.H/2
	n := img.Total()

	return image2d.NewFromFn(img.Width, img.Height, img.Chans, img.Alpha, func(x, y int) colour.Colour {
		out := colour.Colour{Chans: img.Chans, Alpha: img.Alpha}
		for ky := 0; ky < k.H; ky++ {
			for kx := 0; kx < k.W; kx++ {
				w := k.at(kx, ky)
				if w == 0 {
					continue
				}
				src := wrapSample(img, x+kx-halfW, y+ky-halfH, wrapX, wrapY)
				for c := 0; c < n; c++ {
					out.V[c] += w * src.V[c]
				}
			}
		}
		return out
	}), nil
}

// ConvolveSep applies a 1D kernel horizontally then vertically (separable
// approximation of a square kernel), half the sample cost of Convolve for
// kernels that factor, e.g. gaussian blur.
func ConvolveSep(img *image2d.Image2D, row []sample.Sample, wrapX, wrapY bool) (*image2d.Image2D, error) {
	if len(row) == 0 || len(row)%2 == 0 {
		return nil, ierr.ErrKernelShape
	}
	rowK, err := NewKernel(len(row), 1, row)
	if err != nil {
		return nil, err
	}
	colK, err := NewKernel(1, len(row), row)
	if err != nil {
		return nil, err
	}
	h, err := Convolve(img, rowK, wrapX, wrapY)
	if err != nil {
		return nil, err
	}
	return Convolve(h, colK, wrapX, wrapY)
}

// Gaussian builds a normalised 1D binomial-approximated gaussian kernel of
// size n (odd), using row n-1 of Pascal's triangle, grounded on the
// literal gaussian_blur_wrap scenario.
func Gaussian(n int) ([]sample.Sample, error) {
	if n < 1 || n%2 == 0 {
		return nil, ierr.ErrKernelShape
	}
	row := make([]sample.Sample, n)
	row[0] = 1
	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			row[j] += row[j-1]
		}
	}
	var sum sample.Sample
	for _, v := range row {
		sum += v
	}
	for i := range row {
		row[i] /= sum
	}
	return row, nil
}

// Normalise scales an image's positive and negative contributions
// independently so they sum to +1 and -1 respectively, leaving a
// zero-centred kernel image's overall energy balanced. Applies per colour
// channel independently; alpha, if present, is normalised the same way.
func Normalise(img *image2d.Image2D) *image2d.Image2D {
	n := img.Total()
	pos := make([]sample.Sample, n)
	neg := make([]sample.Sample, n)
	img.ForEach(func(_, _ int, c colour.Colour) {
		for i := 0; i < n; i++ {
			if c.V[i] > 0 {
				pos[i] += c.V[i]
			} else {
				neg[i] += c.V[i]
			}
		}
	})
	return image2d.NewFromFn(img.Width, img.Height, img.Chans, img.Alpha, func(x, y int) colour.Colour {
		c := img.At(x, y)
		for i := 0; i < n; i++ {
			if c.V[i] > 0 && pos[i] != 0 {
				c.V[i] /= pos[i]
			} else if c.V[i] < 0 && neg[i] != 0 {
				c.V[i] /= -neg[i]
			}
		}
		return c
	})
}
