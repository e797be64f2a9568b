package iterm2img

import (
	"io"

	"github.com/pkg/errors"
)

// maxSinkUnwrapDepth bounds the unwrap walk so a self-referential wrapper
// cannot loop forever.
const maxSinkUnwrapDepth = 8

// SinkUnwrapper is implemented by writers that decorate an underlying
// binary sink, such as a text-level renderer over a raw terminal stream.
// Payload writes unwrap these until a plain binary writer is reached.
type SinkUnwrapper interface {
	Unwrap() io.Writer
}

// sinkFlusher matches bufio.Writer and other buffered sinks.
type sinkFlusher interface {
	Flush() error
}

// resolveSink resolves w to a genuine binary sink. Wrappers declaring an
// underlying sink are unwrapped to a fixed depth; a nil writer at any level
// means no binary sink is reachable.
func resolveSink(w io.Writer) (io.Writer, error) {
	for depth := 0; depth <= maxSinkUnwrapDepth; depth++ {
		if w == nil {
			return nil, errors.Wrap(ErrNotBinarySink, "nil writer")
		}
		u, ok := w.(SinkUnwrapper)
		if !ok {
			return w, nil
		}
		w = u.Unwrap()
	}
	return nil, errors.Wrapf(ErrNotBinarySink, "wrapper nesting exceeds depth %d", maxSinkUnwrapDepth)
}

// flushSink flushes w when it has a flush capability. Unbuffered sinks are
// already flushed by the write itself.
func flushSink(w io.Writer) error {
	if f, ok := w.(sinkFlusher); ok {
		return f.Flush()
	}
	return nil
}
