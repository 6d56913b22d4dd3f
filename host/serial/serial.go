// Package serial abstracts the host's serial port. The native backend
// wraps tarm/serial; the in-memory simulator link satisfies the same Port
// surface for tests.
package serial

import (
	"io"
	"time"
)

// Port is a serial port as the session layer sees it. Read returns within
// the configured read timeout, possibly with zero bytes; the session polls
// against its own deadlines.
type Port interface {
	io.ReadWriteCloser

	// Flush discards buffered data.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; the listener runs 115200 8-N-1.
	Baud int

	// ReadTimeout bounds each Read call.
	ReadTimeout time.Duration

	// WriteTimeout bounds each Write call. The native backend time-boxes
	// the write, since tarm/serial exposes no OS-level write deadline.
	WriteTimeout time.Duration
}

// DefaultConfig returns the session's standard port configuration.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:       device,
		Baud:         115200,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 200 * time.Millisecond,
	}
}
