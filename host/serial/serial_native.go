package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a native serial port.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads data from the serial port. A read timeout surfaces as a
// zero-byte read.
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port. tarm/serial has no OS-level write
// deadline, so the configured write timeout time-boxes the call instead; a
// frame is a few dozen bytes at 115200 baud, so the box only closes when
// the port has wedged.
func (p *NativePort) Write(b []byte) (int, error) {
	if p.cfg.WriteTimeout <= 0 {
		return p.port.Write(b)
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := p.port.Write(b)
		done <- result{n: n, err: err}
	}()

	timer := time.NewTimer(p.cfg.WriteTimeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.n, r.err
	case <-timer.C:
		return 0, fmt.Errorf("write to %s timed out after %v", p.cfg.Device, p.cfg.WriteTimeout)
	}
}

// Close closes the serial port.
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards unread input so a fresh exchange starts clean.
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
