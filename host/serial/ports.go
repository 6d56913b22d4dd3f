package serial

import (
	"errors"
	"fmt"

	"go.bug.st/serial/enumerator"
)

// ErrNoPort reports that no candidate serial port was found.
var ErrNoPort = errors.New("no serial port found")

// ErrAmbiguousPort reports that more than one candidate port exists and no
// explicit port name was configured.
var ErrAmbiguousPort = errors.New("multiple serial ports found")

// ListPorts enumerates serial port names, USB-attached ports first. The
// egg printer presents itself as a plain USB CDC device, so USB attachment
// is the only useful discriminator.
func ListPorts() ([]string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	var usb, other []string
	for _, d := range details {
		if d.IsUSB {
			usb = append(usb, d.Name)
		} else {
			other = append(other, d.Name)
		}
	}
	return append(usb, other...), nil
}

// SinglePort returns the one unambiguous USB serial port, used when the
// session is opened without an explicit port name.
func SinglePort() (string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %w", err)
	}

	var usb []string
	for _, d := range details {
		if d.IsUSB {
			usb = append(usb, d.Name)
		}
	}
	switch len(usb) {
	case 0:
		return "", ErrNoPort
	case 1:
		return usb[0], nil
	default:
		return "", fmt.Errorf("%w: %d candidates, specify one explicitly", ErrAmbiguousPort, len(usb))
	}
}
