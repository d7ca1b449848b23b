// Package ierr defines the closed error taxonomy shared by the image
// data model and codec packages.
package ierr

import "errors"

var (
	// ErrFormatUnknown is returned when a format string or FourCC is not
	// in the supported catalogue.
	ErrFormatUnknown = errors.New("format unknown")
	// ErrChannelMismatch is returned when a binary op sees incompatible
	// channel arities on its two operands.
	ErrChannelMismatch = errors.New("channel mismatch")
	// ErrSizeMismatch is returned when a binary op or mip assembly sees
	// incompatible dimensions.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrMipChainInvalid is returned when mip i does not equal
	// max(1, dim(mip i-1)/2).
	ErrMipChainInvalid = errors.New("mip chain invalid")
	// ErrCubeShapeInvalid is returned when cube faces differ in size or
	// are non-square.
	ErrCubeShapeInvalid = errors.New("cube shape invalid")
	// ErrBadHeader is returned for a bad DDS magic, header size, or
	// pixel-format size.
	ErrBadHeader = errors.New("bad header")
	// ErrUnsupportedHeader is returned for DX10 extension headers,
	// palletised DDS, or float16 formats.
	ErrUnsupportedHeader = errors.New("unsupported header")
	// ErrKernelShape is returned when a convolution kernel is not
	// odd x odd, or a separable kernel is not Nx1.
	ErrKernelShape = errors.New("kernel shape invalid")
	// ErrIndexOutOfRange is returned by a draw or pixel call past image
	// bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
)
