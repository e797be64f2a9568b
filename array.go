package iterm2img

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// FromTensor validates a dense pixel tensor and converts it into an inline
// image payload. Accepted layouts are (H, W) grayscale and (H, W, C) with
// one to four channels: grayscale, grayscale+alpha, RGB, and RGBA. Uint8
// data is taken as-is; float data is treated as normalized to [0, 1],
// clamped, and quantized onto the 8-bit range. The encoded container is
// PNG unless an option overrides it.
func FromTensor(t *tensor.Dense, opts ...EncodeOption) (*ImagePayload, error) {
	if t == nil {
		return nil, errors.Wrap(ErrBadShape, "nil tensor")
	}

	shape := t.Shape()
	if len(shape) != 2 && len(shape) != 3 {
		return nil, errors.Wrapf(ErrBadShape, "rank %d, want 2 or 3", len(shape))
	}
	for _, dim := range shape {
		if dim == 0 {
			return nil, errors.Wrapf(ErrBadShape, "zero-length dimension in %v", shape)
		}
	}

	height, width := shape[0], shape[1]
	channels := 1
	if len(shape) == 3 {
		// A single trailing channel collapses to the grayscale layout.
		channels = shape[2]
		if channels > 4 {
			return nil, errors.Wrapf(ErrBadShape, "%d channels, want 1 to 4", channels)
		}
	}

	pixels, err := tensorBytes(t)
	if err != nil {
		return nil, err
	}

	return FromImage(imageFromPixels(pixels, width, height, channels), opts...)
}

// tensorBytes returns the tensor's backing data as 8-bit pixels. Float
// tensors are quantized; any other element type is rejected.
func tensorBytes(t *tensor.Dense) ([]uint8, error) {
	switch t.Dtype() {
	case tensor.Uint8:
		return t.Data().([]uint8), nil
	case tensor.Float32:
		src := t.Data().([]float32)
		out := make([]uint8, len(src))
		for i, v := range src {
			out[i] = quantizeUnit(float64(v))
		}
		return out, nil
	case tensor.Float64:
		src := t.Data().([]float64)
		out := make([]uint8, len(src))
		for i, v := range src {
			out[i] = quantizeUnit(v)
		}
		return out, nil
	}
	return nil, errors.Wrapf(ErrBadDType, "dtype %v, want uint8 or a float type", t.Dtype())
}

// quantizeUnit clamps v to [0, 1] and scales it onto the 8-bit range,
// rounding halves away from zero. NaN maps to zero.
func quantizeUnit(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Min(math.Max(v, 0), 1)
	return uint8(math.Round(v * 255))
}

// imageFromPixels wraps a validated row-major pixel slice in the matching
// stdlib image type so the codecs can consume it.
func imageFromPixels(pixels []uint8, width, height, channels int) image.Image {
	rect := image.Rect(0, 0, width, height)
	n := width * height

	switch channels {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, pixels)
		return img
	case 2:
		img := image.NewNRGBA(rect)
		for i := 0; i < n; i++ {
			g, a := pixels[2*i], pixels[2*i+1]
			img.Pix[4*i+0] = g
			img.Pix[4*i+1] = g
			img.Pix[4*i+2] = g
			img.Pix[4*i+3] = a
		}
		return img
	case 3:
		img := image.NewNRGBA(rect)
		for i := 0; i < n; i++ {
			img.Pix[4*i+0] = pixels[3*i+0]
			img.Pix[4*i+1] = pixels[3*i+1]
			img.Pix[4*i+2] = pixels[3*i+2]
			img.Pix[4*i+3] = 0xff
		}
		return img
	default: // 4
		img := image.NewNRGBA(rect)
		copy(img.Pix, pixels)
		return img
	}
}
