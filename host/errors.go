// Package host implements the session side of the egg-printer protocol:
// port ownership, synchronization, handshake with one bootstrap retry, and
// one typed request/response exchange per drawing command.
package host

import "errors"

// Error kinds surfaced by a session. OS-level port failures are wrapped
// with ErrIO; each is distinguishable with errors.Is.
var (
	// ErrIO reports that the port could not be opened, read or written.
	ErrIO = errors.New("port i/o failed")

	// ErrTimeout reports that an expected byte count did not arrive
	// within the phase's window.
	ErrTimeout = errors.New("response timeout")

	// ErrProtocol reports bytes that do not conform: wrong marker, wrong
	// ACK code, or a failed sync exchange.
	ErrProtocol = errors.New("protocol violation")

	// ErrEndpoint reports that the listener gave up on the frame and
	// emitted its error burst.
	ErrEndpoint = errors.New("listener reported frame error")

	// ErrStaleListener reports a handshake whose version is older than
	// the host requires, after any bootstrap retry was spent.
	ErrStaleListener = errors.New("listener firmware too old")
)
