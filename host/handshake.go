package host

import (
	"fmt"
	"time"

	"eggbot/host/hexfiles"
	"eggbot/host/serial"
	"eggbot/protocol"
)

// Options configures Open.
type Options struct {
	// Model names the printer's controller board ("uno", "mega"). It
	// selects the embedded listener image and the bootstrap grace period.
	Model string

	// Port is the serial device path. Empty means auto-detect, which
	// requires exactly one unambiguous USB serial port.
	Port string

	// Baud overrides the standard 115200 when nonzero.
	Baud int

	// AutoBootstrap reflashes the listener when the handshake reports a
	// version older than the host requires.
	AutoBootstrap bool

	// Bootstrapper uploads the embedded hex image. Nil with
	// AutoBootstrap set selects the avrdude implementation.
	Bootstrapper Bootstrapper
}

// Open acquires the port, synchronizes and performs the version handshake.
// A stale listener triggers exactly one bootstrap/retry cycle when
// AutoBootstrap is set; a second failure is permanent.
func Open(opts Options) (*Session, error) {
	portName := opts.Port
	if portName == "" {
		var err error
		portName, err = serial.SinglePort()
		if err != nil {
			return nil, err
		}
	}

	cfg := serial.DefaultConfig(portName)
	if opts.Baud != 0 {
		cfg.Baud = opts.Baud
	}

	open := func() (*Session, error) {
		port, err := serial.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrIO)
		}
		s := NewSession(port)
		s.model = opts.Model
		return s, nil
	}

	s, err := open()
	if err != nil {
		return nil, err
	}

	major, minor, err := s.Handshake()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("initial handshake: %w", err)
	}
	if !staleVersion(major, minor) {
		return s, nil
	}

	if !opts.AutoBootstrap {
		s.Close()
		return nil, fmt.Errorf("listener reports %d.%d, host requires %d.%d: %w",
			major, minor, protocol.VersionMajor, protocol.VersionMinor, ErrStaleListener)
	}

	// The bootstrapper needs the port to itself.
	s.Close()

	bootstrapper := opts.Bootstrapper
	if bootstrapper == nil {
		bootstrapper = &AvrdudeBootstrapper{}
	}
	hexLines, err := hexfiles.ForModel(opts.Model)
	if err != nil {
		return nil, err
	}
	if err := bootstrapper.UploadHex(opts.Model, portName, hexLines); err != nil {
		return nil, fmt.Errorf("bootstrap upload: %w", err)
	}

	// The board reboots into the fresh listener; give it a model-sized
	// grace period before talking again.
	time.Sleep(GracePeriod(opts.Model))

	s, err = open()
	if err != nil {
		return nil, err
	}
	major, minor, err = s.Handshake()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("handshake after bootstrap: %w", err)
	}
	if staleVersion(major, minor) {
		s.Close()
		return nil, fmt.Errorf("listener still reports %d.%d after bootstrap: %w",
			major, minor, ErrStaleListener)
	}
	return s, nil
}

// staleVersion compares a reported listener version against the host's.
func staleVersion(major, minor byte) bool {
	return int(major)*10+int(minor) < protocol.VersionMajor*10+protocol.VersionMinor
}
