package host

import (
	"fmt"
	"sync"
	"time"

	"eggbot/host/serial"
	"eggbot/protocol"
)

// Session owns one serial port and sequences request/response exchanges
// over it. At most one request is outstanding: the mutex covers the whole
// exchange, so concurrent callers serialize.
type Session struct {
	mu    sync.Mutex
	port  serial.Port
	model string

	// readTimeout bounds each read phase of an exchange.
	readTimeout time.Duration
}

// NewSession wraps an already-open port without performing the handshake.
// Open is the usual entry point; NewSession exists for tests and for
// callers that manage initialization themselves.
func NewSession(port serial.Port) *Session {
	return &Session{
		port:        port,
		readTimeout: 500 * time.Millisecond,
	}
}

// Model reports the configured printer model.
func (s *Session) Model() string { return s.model }

// Close releases the port. The session is unusable afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}

// Send performs one full exchange for any typed request and returns the
// matched typed response. Errors abort the exchange but leave the session
// usable; the next Send re-synchronizes from scratch.
func (s *Session) Send(req protocol.Request) (protocol.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(req)
}

// Typed dispatch: one send per request kind, returning the corresponding
// response kind.

// Handshake asks the listener for its protocol version.
func (s *Session) Handshake() (major, minor byte, err error) {
	rsp, err := s.Send(protocol.HandshakeRequest{})
	if err != nil {
		return 0, 0, err
	}
	h := rsp.(protocol.HandshakeResponse)
	return h.Major, h.Minor, nil
}

// Begin enables the stepper drivers.
func (s *Session) Begin() error {
	_, err := s.Send(protocol.BeginRequest{})
	return err
}

// End raises the pen, parks at the origin and releases the drivers.
func (s *Session) End() error {
	_, err := s.Send(protocol.EndRequest{})
	return err
}

// Pen raises or lowers the pen and returns the state the listener holds.
func (s *Session) Pen(state protocol.PenState) (protocol.PenState, error) {
	rsp, err := s.Send(protocol.PenRequest{State: state})
	if err != nil {
		return protocol.PenUp, err
	}
	return rsp.(protocol.PenResponse).State, nil
}

// Move walks the pen through points and returns how many the listener
// executed. The payload length travels as one byte, which caps a single
// exchange at protocol.MaxMovePoints points.
func (s *Session) Move(points []protocol.Point) (int, error) {
	if len(points) > protocol.MaxMovePoints {
		return 0, fmt.Errorf("move with %d points exceeds one frame (max %d): %w",
			len(points), protocol.MaxMovePoints, ErrProtocol)
	}
	rsp, err := s.Send(protocol.MoveRequest{Points: points})
	if err != nil {
		return 0, err
	}
	return int(rsp.(protocol.MoveResponse).Count), nil
}

// Dot places the pen down at a single point.
func (s *Session) Dot(at protocol.Point) error {
	_, err := s.Send(protocol.DotRequest{At: at})
	return err
}

// Line draws a straight segment between two points.
func (s *Session) Line(from, to protocol.Point) error {
	_, err := s.Send(protocol.LineRequest{From: from, To: to})
	return err
}

// exchange runs the frame protocol for one request. Every exchange starts
// with the sync preamble; the listener acknowledges it, echoes the header
// in reverse, and answers the checksummed body with a typed response.
func (s *Session) exchange(req protocol.Request) (protocol.Response, error) {
	if err := s.synchronize(); err != nil {
		return nil, err
	}

	header, echo := protocol.Header(req)
	if err := s.write(header[:]); err != nil {
		return nil, err
	}
	var gotEcho [3]byte
	if err := s.readFull(gotEcho[:], "header echo"); err != nil {
		return nil, err
	}
	if gotEcho == [3]byte{protocol.MarkerError, protocol.MarkerError, protocol.MarkerError} {
		return nil, fmt.Errorf("header rejected: %w", ErrEndpoint)
	}
	if gotEcho != echo {
		return nil, fmt.Errorf("header echo % x, want % x: %w", gotEcho[:], echo[:], ErrProtocol)
	}

	if err := s.write(protocol.Body(req)); err != nil {
		return nil, err
	}
	if err := s.write([]byte{protocol.MarkerAllWritten}); err != nil {
		return nil, err
	}

	return s.readResponse(req)
}

// synchronize writes the sync preamble and consumes the listener's ack.
func (s *Session) synchronize() error {
	if err := s.write(protocol.Sync[:]); err != nil {
		return err
	}
	var ack [4]byte
	if err := s.readFull(ack[:], "sync ack"); err != nil {
		return err
	}
	if ack != protocol.SyncAck {
		return fmt.Errorf("sync ack % x, want % x: %w", ack[:], protocol.SyncAck[:], ErrProtocol)
	}
	return nil
}

// readResponse reads and types one response frame. Three consecutive error
// markers anywhere at the front are the listener giving up.
func (s *Session) readResponse(req protocol.Request) (protocol.Response, error) {
	var start [1]byte
	if err := s.readFull(start[:], "response marker"); err != nil {
		return nil, err
	}
	if start[0] == protocol.MarkerError {
		var rest [2]byte
		if err := s.readFull(rest[:], "error burst"); err != nil {
			return nil, err
		}
		if rest[0] == protocol.MarkerError && rest[1] == protocol.MarkerError {
			return nil, fmt.Errorf("command 0x%02x: %w", req.Code(), ErrEndpoint)
		}
		return nil, fmt.Errorf("response marker 0x%02x: %w", start[0], ErrProtocol)
	}
	if start[0] != protocol.MarkerResponse {
		return nil, fmt.Errorf("response marker 0x%02x: %w", start[0], ErrProtocol)
	}

	var length [1]byte
	if err := s.readFull(length[:], "response length"); err != nil {
		return nil, err
	}
	if length[0] == 0 {
		return nil, fmt.Errorf("zero-length response: %w", ErrProtocol)
	}

	body := make([]byte, int(length[0]))
	if err := s.readFull(body, "response body"); err != nil {
		return nil, err
	}

	rsp, err := protocol.ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrProtocol)
	}
	if rsp.Ack() != protocol.AckFor(req.Code()) {
		return nil, fmt.Errorf("ack 0x%02x for command 0x%02x: %w",
			rsp.Ack(), req.Code(), ErrProtocol)
	}
	return rsp, nil
}

// write pushes bytes to the port, folding OS failures into ErrIO.
func (s *Session) write(p []byte) error {
	n, err := s.port.Write(p)
	if err != nil {
		return fmt.Errorf("write: %v: %w", err, ErrIO)
	}
	if n != len(p) {
		return fmt.Errorf("short write %d/%d: %w", n, len(p), ErrIO)
	}
	return nil
}

// readFull reads len(buf) bytes within the session read timeout. The port
// is polled; zero-byte reads past the deadline surface as ErrTimeout.
func (s *Session) readFull(buf []byte, phase string) error {
	deadline := time.Now().Add(s.readTimeout)
	got := 0
	for got < len(buf) {
		n, err := s.port.Read(buf[got:])
		got += n
		if err != nil {
			return fmt.Errorf("%s: %v: %w", phase, err, ErrIO)
		}
		if got < len(buf) && n == 0 && time.Now().After(deadline) {
			return fmt.Errorf("%s after %d/%d bytes: %w", phase, got, len(buf), ErrTimeout)
		}
	}
	return nil
}
