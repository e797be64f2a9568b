package iterm2img

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format selects the container format used when encoding pixel data.
type Format string

const (
	// FormatPNG encodes losslessly. This is the default.
	FormatPNG Format = "png"
	// FormatJPEG encodes lossily with a configurable quality.
	FormatJPEG Format = "jpeg"
)

// encodeOptions carries encoder-specific parameters through to the codecs
// without interpretation.
type encodeOptions struct {
	format         Format
	pngCompression png.CompressionLevel
	jpegQuality    int
	name           string
	resampleWidth  uint
	resampleHeight uint
	sourcePath     string
}

func defaultEncodeOptions() encodeOptions {
	return encodeOptions{
		format:      FormatPNG,
		jpegQuality: jpeg.DefaultQuality,
	}
}

// EncodeOption configures image ingestion.
type EncodeOption func(*encodeOptions)

// WithFormat selects the container format (PNG by default).
func WithFormat(f Format) EncodeOption {
	return func(o *encodeOptions) { o.format = f }
}

// WithPNGCompression passes a compression level through to the PNG encoder.
func WithPNGCompression(level png.CompressionLevel) EncodeOption {
	return func(o *encodeOptions) { o.pngCompression = level }
}

// WithJPEGQuality passes a quality setting (1-100) through to the JPEG
// encoder.
func WithJPEGQuality(q int) EncodeOption {
	return func(o *encodeOptions) { o.jpegQuality = q }
}

// WithName sets the payload's display name.
func WithName(name string) EncodeOption {
	return func(o *encodeOptions) { o.name = name }
}

// WithSourcePath derives the display name from the final component of the
// image's originating path and keys the resample cache by it.
func WithSourcePath(path string) EncodeOption {
	return func(o *encodeOptions) {
		o.sourcePath = path
		o.name = displayName(path)
	}
}

// WithResample resamples the pixel grid to the given size before encoding.
// A zero width or height keeps that axis proportional.
func WithResample(width, height uint) EncodeOption {
	return func(o *encodeOptions) {
		o.resampleWidth = width
		o.resampleHeight = height
	}
}

// ImagePayload is a Payload that renders as an inline image. Width and
// height are declarative hints passed to the terminal; nothing forces them
// to match the decoded pixel size of the data.
type ImagePayload struct {
	Payload
	Width               Dimension
	Height              Dimension
	PreserveAspectRatio bool
}

// NewImage builds an ImagePayload from already-encoded image bytes. Both
// dimensions default to automatic sizing and the aspect ratio is preserved.
func NewImage(data []byte, name string) *ImagePayload {
	return &ImagePayload{
		Payload:             Payload{data: append([]byte(nil), data...), Name: name},
		PreserveAspectRatio: true,
	}
}

// OpenImage reads an image file fully into memory without re-encoding it.
// The display name comes from the path's final component. Filesystem
// errors are passed through unchanged.
func OpenImage(path string) (*ImagePayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &ImagePayload{
		Payload:             Payload{data: data, Name: displayName(path)},
		PreserveAspectRatio: true,
	}, nil
}

// FromImage encodes a decoded image into the chosen container format and
// builds an ImagePayload from the result. Width and height are set to half
// the pixel dimensions, converting double-density pixels into points.
func FromImage(img image.Image, opts ...EncodeOption) (*ImagePayload, error) {
	o := defaultEncodeOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if o.resampleWidth > 0 || o.resampleHeight > 0 {
		img = Resample(img, o.resampleWidth, o.resampleHeight, o.sourcePath)
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, img, o); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ImagePayload{
		Payload:             Payload{data: buf.Bytes(), Name: o.name},
		Width:               Px(float64(bounds.Dx()) / 2),
		Height:              Px(float64(bounds.Dy()) / 2),
		PreserveAspectRatio: true,
	}, nil
}

func encodeImage(w io.Writer, img image.Image, o encodeOptions) error {
	switch o.format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: o.jpegQuality})
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: o.pngCompression}
		return enc.Encode(w, img)
	}
	return errors.Errorf("unsupported image format %q", o.format)
}

// Decode decodes the payload's own bytes into an image, the reverse of
// FromImage.
func (p *ImagePayload) Decode() (image.Image, error) {
	img, _, err := image.Decode(p.File())
	return img, err
}

// DetectSize decodes the payload's own bytes only to read the true pixel
// dimensions and overwrites Width and Height with them in pixel units,
// halved when retina is set. The data is not altered. Codec errors are
// passed through unchanged.
func (p *ImagePayload) DetectSize(retina bool) error {
	cfg, _, err := image.DecodeConfig(p.File())
	if err != nil {
		return err
	}
	div := 1.0
	if retina {
		div = 2.0
	}
	p.Width = Px(float64(cfg.Width) / div)
	p.Height = Px(float64(cfg.Height) / div)
	return nil
}

// Copy returns a deep copy of the payload. The clone owns its own byte
// buffer, so concurrent holders of a scaled derivative never alias the
// original's data.
func (p *ImagePayload) Copy() *ImagePayload {
	clone := *p
	clone.data = append([]byte(nil), p.data...)
	return &clone
}

// ScaleBy multiplies both dimension values in place by a nonnegative
// factor. Units are left unchanged, so scaling an automatic dimension has
// no visible effect at render time.
func (p *ImagePayload) ScaleBy(factor float64) error {
	if factor < 0 {
		return errors.Wrapf(ErrNegativeScale, "factor %v", factor)
	}
	p.Width.Value *= factor
	p.Height.Value *= factor
	return nil
}

// ScaledBy returns a scaled deep copy, leaving the receiver and its data
// untouched.
func (p *ImagePayload) ScaledBy(factor float64) (*ImagePayload, error) {
	clone := p.Copy()
	if err := clone.ScaleBy(factor); err != nil {
		return nil, err
	}
	return clone, nil
}

// ScaledDownBy divides both dimensions by divisor on a deep copy. Division
// is multiplication by the reciprocal; dividing by zero keeps the IEEE
// infinity and NaN semantics.
func (p *ImagePayload) ScaledDownBy(divisor float64) (*ImagePayload, error) {
	return p.ScaledBy(1 / divisor)
}

// Write emits the payload as a single inline-image escape sequence on w.
// The inline argument is what makes the terminal render the image instead
// of offering a file download.
func (p *ImagePayload) Write(w io.Writer) error {
	args := append(p.wireArgs(),
		wireArg{"width", p.Width.String()},
		wireArg{"height", p.Height.String()},
		wireArg{"preserveAspectRatio", boolArg(p.PreserveAspectRatio)},
		wireArg{"inline", "1"},
	)
	return p.writeSequence(w, args)
}

// Print writes the inline image to stdout.
func (p *ImagePayload) Print() error {
	return p.Write(os.Stdout)
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
