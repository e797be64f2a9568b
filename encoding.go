package iterm2img

import (
	"encoding/base64"
	"sync"
)

// Base64 encoder pool to reuse encoding buffers across writes.
var base64EncoderPool = sync.Pool{
	New: func() any {
		// Pre-allocate for a typical compressed image payload.
		buf := make([]byte, 0, 64*1024)
		return &buf
	},
}

// base64Encode encodes src with the standard padded alphabet, no line
// wrapping, reusing pooled buffers.
func base64Encode(src []byte) string {
	bufPtr := base64EncoderPool.Get().(*[]byte)
	defer base64EncoderPool.Put(bufPtr)

	encodedLen := base64.StdEncoding.EncodedLen(len(src))
	if cap(*bufPtr) < encodedLen {
		*bufPtr = make([]byte, encodedLen)
	} else {
		*bufPtr = (*bufPtr)[:encodedLen]
	}

	base64.StdEncoding.Encode(*bufPtr, src)

	return string(*bufPtr)
}
