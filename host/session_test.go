package host

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"eggbot/firmware"
	"eggbot/protocol"
)

type nullPin struct{}

func (nullPin) Set(bool) {}

type nullServo struct{}

func (nullServo) SetAngle(int) {}

type nullClock struct{}

func (nullClock) Sleep(time.Duration) {}

// startPrinter runs a real firmware listener over the in-memory link and
// returns a session talking to it.
func startPrinter(t *testing.T) *Session {
	t.Helper()

	hostEnd, devEnd := firmware.NewSimLink()
	axis := firmware.Axis{Step: nullPin{}, Dir: nullPin{}, Enable: nullPin{}}
	motion := firmware.NewMotion(axis, axis, nullServo{}, nullClock{})
	listener := firmware.NewListener(devEnd, motion)
	go listener.Run() // exits when the session closes

	hostEnd.ReadTimeout = 100 * time.Millisecond
	s := NewSession(hostEnd)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionHandshake(t *testing.T) {
	s := startPrinter(t)

	major, minor, err := s.Handshake()
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if major != protocol.VersionMajor || minor != protocol.VersionMinor {
		t.Errorf("version = %d.%d, want %d.%d",
			major, minor, protocol.VersionMajor, protocol.VersionMinor)
	}
}

func TestSessionDrawingCommands(t *testing.T) {
	s := startPrinter(t)

	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	state, err := s.Pen(protocol.PenDown)
	if err != nil {
		t.Fatalf("Pen: %v", err)
	}
	if state != protocol.PenDown {
		t.Errorf("pen state = %v, want down", state)
	}

	count, err := s.Move([]protocol.Point{{-1, 0}, {0, 0}})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if count != 2 {
		t.Errorf("move count = %d, want 2", count)
	}

	if err := s.Dot(protocol.Point{100, 50}); err != nil {
		t.Fatalf("Dot: %v", err)
	}
	if err := s.Line(protocol.Point{0, 0}, protocol.Point{25, 25}); err != nil {
		t.Fatalf("Line: %v", err)
	}
	if err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
}

func TestSessionSequentialExchanges(t *testing.T) {
	s := startPrinter(t)

	// Every exchange re-synchronizes; a burst of back-to-back requests
	// must stay in lockstep.
	for i := 0; i < 10; i++ {
		if _, _, err := s.Handshake(); err != nil {
			t.Fatalf("handshake %d: %v", i, err)
		}
	}
}

// scriptedPort feeds canned response chunks and records writes. An empty
// script reads as a serial timeout (zero bytes).
type scriptedPort struct {
	script [][]byte
	writes bytes.Buffer
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.script) == 0 {
		return 0, nil
	}
	chunk := p.script[0]
	n := copy(b, chunk)
	if n == len(chunk) {
		p.script = p.script[1:]
	} else {
		p.script[0] = chunk[n:]
	}
	return n, nil
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	p.writes.Write(b)
	return len(b), nil
}

func (p *scriptedPort) Close() error { return nil }
func (p *scriptedPort) Flush() error { return nil }

func scriptedSession(script ...[]byte) *Session {
	s := NewSession(&scriptedPort{script: script})
	s.readTimeout = 50 * time.Millisecond
	return s
}

func TestSessionSyncTimeout(t *testing.T) {
	// Scenario: the listener never answers the preamble (e.g. it is
	// blocked waiting for the rest of a partial sync).
	s := scriptedSession()

	_, _, err := s.Handshake()
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Handshake = %v, want ErrTimeout", err)
	}
}

func TestSessionBadSyncAck(t *testing.T) {
	s := scriptedSession([]byte{0x00, 0x01, 0x02, 0x03})

	_, _, err := s.Handshake()
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Handshake = %v, want ErrProtocol", err)
	}
}

func TestSessionEndpointError(t *testing.T) {
	// The listener accepts the header but rejects the frame (bad
	// checksum on its side) with the error burst.
	s := scriptedSession(
		protocol.SyncAck[:],
		[]byte{0x01, 0x07, 0xFB}, // header echo for Pen
		[]byte{0xEF, 0xEF, 0xEF},
	)

	_, err := s.Pen(protocol.PenDown)
	if !errors.Is(err, ErrEndpoint) {
		t.Errorf("Pen = %v, want ErrEndpoint", err)
	}
}

func TestSessionEndpointErrorAtEcho(t *testing.T) {
	s := scriptedSession(
		protocol.SyncAck[:],
		[]byte{0xEF, 0xEF, 0xEF},
	)

	_, err := s.Pen(protocol.PenDown)
	if !errors.Is(err, ErrEndpoint) {
		t.Errorf("Pen = %v, want ErrEndpoint", err)
	}
}

func TestSessionAckMismatch(t *testing.T) {
	s := scriptedSession(
		protocol.SyncAck[:],
		[]byte{0x01, 0x07, 0xFB},
		[]byte{0xF9, 0x01, 0x04}, // Begin ack to a Pen request
	)

	_, err := s.Pen(protocol.PenDown)
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Pen = %v, want ErrProtocol", err)
	}
}

func TestSessionEchoMismatch(t *testing.T) {
	s := scriptedSession(
		protocol.SyncAck[:],
		[]byte{0x07, 0x01, 0xFB}, // echo not reversed
	)

	_, err := s.Pen(protocol.PenDown)
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Pen = %v, want ErrProtocol", err)
	}
}

func TestSessionWireBytes(t *testing.T) {
	// Scenario 1 of the protocol: the handshake request on the wire.
	port := &scriptedPort{script: [][]byte{
		protocol.SyncAck[:],
		{0x00, 0x01, 0xFB},
		{0xF9, 0x03, 0x02, 0x01, 0x00},
	}}
	s := NewSession(port)
	s.readTimeout = 50 * time.Millisecond

	if _, _, err := s.Handshake(); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	want := []byte{
		0xFE, 0xED, 0xBA, 0xBE, // sync preamble
		0xFB, 0x01, 0x00, // header
		0x01, 0x00, 0xFC, 0x02, // checksummed region + trailer
		0xFA, // all written
	}
	if got := port.writes.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wire bytes = % x, want % x", got, want)
	}
}

func TestSessionMoveTooLong(t *testing.T) {
	s := scriptedSession()

	points := make([]protocol.Point, protocol.MaxMovePoints+1)
	_, err := s.Move(points)
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Move = %v, want ErrProtocol", err)
	}
}

func TestStaleVersion(t *testing.T) {
	testCases := []struct {
		major, minor byte
		stale        bool
	}{
		{0, 9, true},
		{1, 0, false},
		{1, 1, false},
		{2, 0, false},
		{0, 0, true},
	}
	for _, tc := range testCases {
		if got := staleVersion(tc.major, tc.minor); got != tc.stale {
			t.Errorf("staleVersion(%d, %d) = %v, want %v", tc.major, tc.minor, got, tc.stale)
		}
	}
}

func TestGracePeriod(t *testing.T) {
	if GracePeriod("uno") != 2*time.Second {
		t.Error("uno grace period")
	}
	if GracePeriod("mega") != 3*time.Second {
		t.Error("mega grace period")
	}
	if GracePeriod("unknown") != 2*time.Second {
		t.Error("default grace period")
	}
}

func TestAvrdudeBootstrapperUnknownModel(t *testing.T) {
	b := &AvrdudeBootstrapper{}
	if err := b.UploadHex("teensy", "/dev/null", []string{":00000001FF"}); err == nil {
		t.Error("expected error for unknown model")
	}
}
