package iterm2img

import "github.com/pkg/errors"

// Error kinds returned by payload construction and validation. Callers can
// match them with errors.Is; wrapped context carries the offending values.
var (
	// ErrNotBinarySink indicates the write target is not a binary sink and
	// no underlying binary sink could be reached by unwrapping.
	ErrNotBinarySink = errors.New("sink is not a binary stream nor is it convertible to one")

	// ErrBadShape indicates a pixel array with the wrong rank, a zero-length
	// dimension, or an invalid channel count.
	ErrBadShape = errors.New("pixel array has an unsupported shape")

	// ErrBadDType indicates a pixel array element type that is neither uint8
	// nor a float type normalizable to it.
	ErrBadDType = errors.New("pixel array has an unsupported element type")

	// ErrNegativeScale indicates a scale factor below zero.
	ErrNegativeScale = errors.New("scale factor must be nonnegative")
)
