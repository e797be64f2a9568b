package iterm2img

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Escape sequence framing for the iTerm2 File transfer protocol.
// Format: ESC ]1337;File=<args>:<base64 data> BEL newline
const (
	fileSeqStart = "\x1b]1337;File="
	fileSeqEnd   = "\a\n"
)

// Payload is the unit of data the protocol transmits: raw byte content
// plus an optional display name. The buffer is owned exclusively by the
// payload and never mutated after construction.
type Payload struct {
	data []byte

	// Name is an optional display name (typically a file's base name).
	// It is metadata only, never used for path resolution.
	Name string
}

// New builds a Payload from a byte buffer. The buffer is copied so the
// payload owns its data exclusively.
func New(data []byte, name string) *Payload {
	return &Payload{data: append([]byte(nil), data...), Name: name}
}

// Open reads the file at path fully into memory and derives the display
// name from the path's final component. Opening the filesystem root leaves
// the name unset. Filesystem errors are passed through unchanged.
func Open(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Payload{data: data, Name: displayName(path)}, nil
}

// displayName extracts the final path component, or "" when the path has
// no component (the filesystem root).
func displayName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// Data returns the payload's byte buffer. Callers must not modify it.
func (p *Payload) Data() []byte { return p.data }

// Size returns the byte length of the raw payload.
func (p *Payload) Size() int { return len(p.data) }

// File returns a new binary reader over the payload's data.
func (p *Payload) File() *bytes.Reader { return bytes.NewReader(p.data) }

// wireArg is a single key/value metadata argument. Wire order follows
// argument order, kept deterministic for testability.
type wireArg struct {
	key string
	val string
}

// wireArgs builds the argument set for a plain file transfer: the
// base64-encoded display name when present, then the raw byte length.
func (p *Payload) wireArgs() []wireArg {
	args := make([]wireArg, 0, 6)
	if p.Name != "" {
		args = append(args, wireArg{"name", base64.StdEncoding.EncodeToString([]byte(p.Name))})
	}
	return append(args, wireArg{"size", strconv.Itoa(len(p.data))})
}

// writeSequence serializes the payload plus args into one self-contained
// escape sequence and writes it to w. The sequence is built fully in memory
// before the first byte reaches the sink, so a validation failure never
// emits partial output.
func (p *Payload) writeSequence(w io.Writer, args []wireArg) error {
	sink, err := resolveSink(w)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.Grow(len(fileSeqStart) + base64.StdEncoding.EncodedLen(len(p.data)) + 64)
	b.WriteString(fileSeqStart)
	for i, a := range args {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(a.key)
		b.WriteByte('=')
		b.WriteString(a.val)
	}
	b.WriteByte(':')
	b.WriteString(base64Encode(p.data))
	b.WriteString(fileSeqEnd)

	if _, err := io.WriteString(sink, b.String()); err != nil {
		return err
	}
	return flushSink(sink)
}

// Write emits the payload as a single file-transfer escape sequence on w
// and flushes the sink if it is buffered.
func (p *Payload) Write(w io.Writer) error {
	return p.writeSequence(w, p.wireArgs())
}

// Print writes the payload to stdout.
func (p *Payload) Print() error {
	return p.Write(os.Stdout)
}
