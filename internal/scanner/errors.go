package scanner

import "errors"

// Domain errors for the scanner package.
var (
	// ErrPortOpen is returned when the serial device cannot be opened.
	// This is the only fatal scanner error.
	ErrPortOpen = errors.New("scanner: failed to open serial port")

	// ErrTimeout is returned by Poll when no bytes arrived within the
	// read timeout. Callers retry after a short delay and do not log it.
	ErrTimeout = errors.New("scanner: read timed out")

	// ErrBadFrameLength is returned by Poll when a read produced bytes but
	// not exactly one frame's worth. The bytes are discarded.
	ErrBadFrameLength = errors.New("scanner: unexpected frame length")

	// ErrReadFailed is returned by Poll for any other I/O error.
	ErrReadFailed = errors.New("scanner: serial read failed")
)
