package scanner

import (
	"errors"
	"fmt"
	"os"
)

// Frame constants for the NFC reader's ASCII output.
const (
	// readBufferSize bounds a single read from the device.
	readBufferSize = 1024

	// shortFrameLen is a 12-character tag identifier plus 2 trailing bytes.
	shortFrameLen = 14

	// longFrameLen is a 13-character tag identifier plus 2 trailing bytes.
	longFrameLen = 15
)

// Frame is one complete tag read as delivered by the reader, trailer included.
type Frame []byte

// Reader turns reads from a Port into frames.
//
// A single read of exactly 14 or 15 bytes is one frame. Reads of any other
// length are discarded whole: two frames delivered in one read are not split
// and a frame split across two reads is never reassembled.
//
// Thread Safety: not safe for concurrent use. The bridge loop owns its Reader.
type Reader struct {
	port Port
	buf  []byte
}

// NewReader creates a Reader polling the given port.
func NewReader(port Port) *Reader {
	return &Reader{
		port: port,
		buf:  make([]byte, readBufferSize),
	}
}

// Poll performs one bounded read.
//
// Returns:
//   - Frame: A copy of the bytes read, only when err is nil
//   - error: ErrTimeout if nothing arrived, ErrBadFrameLength if the read
//     was not frame-sized, or ErrReadFailed wrapping the device error
func (r *Reader) Poll() (Frame, error) {
	n, err := r.port.Read(r.buf)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	if n == 0 {
		return nil, ErrTimeout
	}

	if n != shortFrameLen && n != longFrameLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrBadFrameLength, n)
	}

	frame := make(Frame, n)
	copy(frame, r.buf[:n])
	return frame, nil
}

// isTimeout reports whether err is a read deadline expiry.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
