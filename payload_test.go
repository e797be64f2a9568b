package iterm2img

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeWire reverses the framing and base64 steps of a single escape
// sequence, returning the argument keys in wire order, the key/value map,
// and the decoded payload bytes.
func decodeWire(t *testing.T, wire string) ([]string, map[string]string, []byte) {
	t.Helper()

	require.True(t, strings.HasPrefix(wire, "\x1b]1337;File="), "missing start marker: %q", wire)
	require.True(t, strings.HasSuffix(wire, "\a\n"), "missing terminator: %q", wire)

	body := strings.TrimSuffix(strings.TrimPrefix(wire, "\x1b]1337;File="), "\a\n")
	argStr, b64, found := strings.Cut(body, ":")
	require.True(t, found, "missing args/data separator: %q", wire)

	var order []string
	kv := make(map[string]string)
	for _, part := range strings.Split(argStr, ";") {
		k, v, ok := strings.Cut(part, "=")
		require.True(t, ok, "malformed argument %q", part)
		order = append(order, k)
		kv[k] = v
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	return order, kv, data
}

func TestPayloadWriteRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		escName string
	}{
		{name: "empty unnamed", data: nil, escName: ""},
		{name: "empty named", data: nil, escName: "empty.bin"},
		{name: "text", data: []byte("hello, world"), escName: "hello.txt"},
		{name: "binary", data: []byte{0x00, 0x1b, 0x07, 0xff, 0x3a, 0x3b}, escName: "raw.bin"},
		{name: "unnamed binary", data: []byte{1, 2, 3}, escName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.data, tt.escName)

			var buf bytes.Buffer
			require.NoError(t, p.Write(&buf))

			order, kv, data := decodeWire(t, buf.String())
			assert.True(t, bytes.Equal(tt.data, data), "payload bytes must round-trip")

			if tt.escName != "" {
				assert.Equal(t, []string{"name", "size"}, order, "name must precede size")
				decoded, err := base64.StdEncoding.DecodeString(kv["name"])
				require.NoError(t, err)
				assert.Equal(t, tt.escName, string(decoded))
			} else {
				assert.Equal(t, []string{"size"}, order)
			}
			assert.Equal(t, len(tt.data), len(data))
		})
	}
}

func TestPayloadWriteOpenedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "10_byte_file.txt")
	content := []byte("0123456789")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "10_byte_file.txt", p.Name)

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	want := "\x1b]1337;File=name=" +
		base64.StdEncoding.EncodeToString([]byte("10_byte_file.txt")) +
		";size=10:" +
		base64.StdEncoding.EncodeToString(content) +
		"\a\n"
	assert.Equal(t, want, buf.String())
}

func TestOpenMissingFilePassesErrorThrough(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no-such-file"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/tmp/report.pdf", want: "report.pdf"},
		{path: "report.pdf", want: "report.pdf"},
		{path: "/", want: ""},
		{path: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayName(tt.path), "path %q", tt.path)
	}
}

func TestPayloadOwnsItsBuffer(t *testing.T) {
	src := []byte("mutable")
	p := New(src, "")
	src[0] = 'X'
	assert.Equal(t, []byte("mutable"), p.Data())
}

func TestPayloadFile(t *testing.T) {
	p := New([]byte("stream me"), "")
	got, err := io.ReadAll(p.File())
	require.NoError(t, err)
	assert.Equal(t, []byte("stream me"), got)

	// Each call returns a fresh reader positioned at the start.
	got2, err := io.ReadAll(p.File())
	require.NoError(t, err)
	assert.Equal(t, got, got2)
}

// textWrapper models a text-level writer that decorates a binary sink.
// Its own Write must never be used for raw protocol bytes.
type textWrapper struct {
	inner io.Writer
}

func (w *textWrapper) Write(p []byte) (int, error) {
	return 0, errors.New("text writes only")
}

func (w *textWrapper) Unwrap() io.Writer { return w.inner }

func TestWriteUnwrapsWrappedSink(t *testing.T) {
	var buf bytes.Buffer
	p := New([]byte("abc"), "")

	require.NoError(t, p.Write(&textWrapper{inner: &buf}))

	_, kv, data := decodeWire(t, buf.String())
	assert.Equal(t, "3", kv["size"])
	assert.Equal(t, []byte("abc"), data)
}

func TestWriteRejectsUnreachableSink(t *testing.T) {
	p := New([]byte("abc"), "")

	t.Run("nil writer", func(t *testing.T) {
		err := p.Write(nil)
		assert.True(t, errors.Is(err, ErrNotBinarySink))
	})

	t.Run("wrapper over nil", func(t *testing.T) {
		err := p.Write(&textWrapper{})
		assert.True(t, errors.Is(err, ErrNotBinarySink))
	})

	t.Run("nesting too deep", func(t *testing.T) {
		var buf bytes.Buffer
		w := io.Writer(&buf)
		for i := 0; i < 10; i++ {
			w = &textWrapper{inner: w}
		}
		err := p.Write(w)
		assert.True(t, errors.Is(err, ErrNotBinarySink))
		assert.Zero(t, buf.Len(), "no partial output may reach the sink")
	})
}

func TestWriteFlushesBufferedSink(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriterSize(&buf, 1<<20)

	p := New([]byte("flushed"), "f.txt")
	require.NoError(t, p.Write(bw))

	// The sequence must be visible without an explicit caller-side flush.
	_, _, data := decodeWire(t, buf.String())
	assert.Equal(t, []byte("flushed"), data)
}

func TestWriteEmitsSingleSequence(t *testing.T) {
	p := New(bytes.Repeat([]byte{0xab}, 512*1024), "big.bin")

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\x1b]1337;File="), "large payloads are not chunked")
	assert.Equal(t, 1, strings.Count(out, "\a"))
	_, kv, data := decodeWire(t, out)
	assert.Equal(t, "524288", kv["size"])
	assert.Equal(t, 512*1024, len(data))
}
