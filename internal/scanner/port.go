package scanner

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Port is a byte source with a bounded read timeout.
//
// Read must return (0, nil) or an error satisfying a Timeout() bool method
// when no data arrived within the timeout. *serial.Port from go.bug.st/serial
// behaves this way once SetReadTimeout has been called.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// OpenSerial opens the NFC reader's serial device in 8N1 mode.
//
// Parameters:
//   - device: Device path, e.g. "/dev/ttyUSB0"
//   - baud: Line speed, e.g. 115200
//   - readTimeout: Upper bound on each Read call
//
// Returns:
//   - Port: Open port, ready for polling
//   - error: Wraps ErrPortOpen if the device cannot be opened or configured
func OpenSerial(device string, baud int, readTimeout time.Duration) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPortOpen, device, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("%w: %s: setting read timeout: %w", ErrPortOpen, device, err)
	}

	return port, nil
}
