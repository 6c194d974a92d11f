package rpc

import (
	"encoding/binary"
	"fmt"
	"io"
)

/*
rpc carries encoded buffers between generated client stubs and service
implementations over HTTP. Each method maps to POST /rpc/{service}/{method};
the request body is a single encoded buffer. Unary responses are a single
buffer. Streaming responses are a sequence of frames, each a 4-byte
little-endian length prefix followed by that many bytes, ending when the body
closes.
*/

////////////////////////////////////////////////////////////////////////////////

// MaxFrameSize bounds a single streamed message. Frames above it indicate a
// corrupt or hostile stream.
const MaxFrameSize = 1 << 30

// WriteFrame writes one length-prefixed frame.
func WriteFrame(w io.Writer, msg []byte) error {
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(msg)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame. It returns io.EOF when the
// stream ends cleanly on a frame boundary.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}
	n := binary.LittleEndian.Uint32(prefix[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", n)
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("failed to read frame body: %w", err)
	}
	return msg, nil
}
