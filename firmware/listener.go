package firmware

import (
	"errors"
	"time"

	"eggbot/protocol"
)

// Phase timeouts. Sync acquisition itself blocks without limit; a stray
// byte on the line is not an error, just noise before the next frame.
const (
	syncTimeout        = 500 * time.Millisecond
	readPayloadTimeout = 2000 * time.Millisecond
)

// Listener is the single-threaded command loop: per iteration it acquires
// sync, reads one request frame, validates it and executes it. All motion
// and pin state is owned here.
type Listener struct {
	link   Link
	motion *Motion

	// Timeouts are fields so tests can shorten the windows; targets leave
	// the defaults.
	HeaderTimeout  time.Duration
	PayloadTimeout time.Duration
}

// NewListener creates a listener speaking over link and driving motion.
func NewListener(link Link, motion *Motion) *Listener {
	return &Listener{
		link:           link,
		motion:         motion,
		HeaderTimeout:  syncTimeout,
		PayloadTimeout: readPayloadTimeout,
	}
}

// Run iterates the listener loop until the link closes.
func (l *Listener) Run() error {
	for {
		if err := l.RunOnce(); errors.Is(err, ErrLinkClosed) {
			return err
		}
	}
}

// RunOnce performs one loop iteration: one sync acquisition and, if a
// well-formed frame follows, one command exchange. Framing and checksum
// failures emit the error burst and return nil; only a closed link or a
// failed write is reported to the caller.
func (l *Listener) RunOnce() error {
	var buf [4]byte

	// SYNC: four bytes, blocking. Anything else restarts silently.
	if err := l.link.ReadFull(buf[:4], 0); err != nil {
		if errors.Is(err, ErrLinkClosed) {
			return err
		}
		return nil
	}
	if buf != protocol.Sync {
		return nil
	}
	if err := l.link.Write(protocol.SyncAck[:]); err != nil {
		return err
	}

	// HEADER: FB C L.
	var header [3]byte
	if err := l.link.ReadFull(header[:], l.HeaderTimeout); err != nil {
		return l.fail(err)
	}
	if header[0] != protocol.MarkerRequest {
		return l.fail(nil)
	}
	cmd, length := header[1], header[2]

	// HEADER_ECHO: the same three bytes in reverse order.
	if err := l.link.Write([]byte{length, cmd, protocol.MarkerRequest}); err != nil {
		return err
	}

	// PAYLOAD: the checksummed region C L payload, then the two trailer
	// bytes the host derived from it.
	region := make([]byte, int(length)+2)
	if err := l.link.ReadFull(region, l.PayloadTimeout); err != nil {
		return l.fail(err)
	}
	var trailer [2]byte
	if err := l.link.ReadFull(trailer[:], l.PayloadTimeout); err != nil {
		return l.fail(err)
	}

	// TRAILER: the all-written marker.
	var end [1]byte
	if err := l.link.ReadFull(end[:], l.PayloadTimeout); err != nil {
		return l.fail(err)
	}
	if end[0] != protocol.MarkerAllWritten {
		return l.fail(nil)
	}

	// VERIFY: the host repeats C and L inside the checksummed region, and
	// the re-derived complement pair must match the received trailer.
	if region[0] != cmd || region[1] != length {
		return l.fail(nil)
	}
	c0, c1 := protocol.ChecksumBytes(region)
	if trailer[0] != c0 || trailer[1] != c1 {
		return l.fail(nil)
	}

	return l.dispatch(cmd, region[2:])
}

// fail emits the three-byte error burst and folds link-closure through.
func (l *Listener) fail(err error) error {
	if errors.Is(err, ErrLinkClosed) {
		return err
	}
	burst := []byte{protocol.MarkerError, protocol.MarkerError, protocol.MarkerError}
	if werr := l.link.Write(burst); werr != nil {
		return werr
	}
	return nil
}

// dispatch executes one validated command and writes its response.
func (l *Listener) dispatch(cmd byte, payload []byte) error {
	switch cmd {
	case protocol.CmdHandshake:
		return l.respond(protocol.AckHandshake, protocol.VersionMajor, protocol.VersionMinor)

	case protocol.CmdBegin:
		l.motion.Enable()
		return l.respond(protocol.AckBegin)

	case protocol.CmdEnd:
		l.motion.SetPen(false)
		l.motion.MoveTo(0, 0)
		l.motion.Disable()
		return l.respond(protocol.AckEnd)

	case protocol.CmdPen:
		if len(payload) < 1 {
			return l.fail(nil)
		}
		l.motion.SetPen(payload[0] != 0)
		state := byte(0)
		if l.motion.PenDown() {
			state = 1
		}
		return l.respond(protocol.AckPen, state)

	case protocol.CmdMove:
		n := len(payload) / protocol.PointSize
		for i := 0; i < n; i++ {
			p := protocol.DecodePoint(payload[i*protocol.PointSize:])
			l.motion.MoveTo(p.X, p.Y)
		}
		return l.respond(protocol.AckMove, byte(n))

	case protocol.CmdDot:
		if len(payload) < protocol.PointSize {
			return l.fail(nil)
		}
		p := protocol.DecodePoint(payload)
		l.motion.SetPen(false)
		l.motion.MoveTo(p.X, p.Y)
		l.motion.SetPen(true)
		return l.respond(protocol.AckDot)

	case protocol.CmdLine:
		if len(payload) < 2*protocol.PointSize {
			return l.fail(nil)
		}
		from := protocol.DecodePoint(payload)
		to := protocol.DecodePoint(payload[protocol.PointSize:])
		l.motion.SetPen(false)
		l.motion.MoveTo(from.X, from.Y)
		l.motion.SetPen(true)
		l.motion.MoveTo(to.X, to.Y)
		return l.respond(protocol.AckLine)

	default:
		return l.fail(nil)
	}
}

// respond writes a response frame: F9, length, ACK byte, payload.
func (l *Listener) respond(ack byte, payload ...byte) error {
	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, protocol.MarkerResponse, byte(len(payload)+1), ack)
	frame = append(frame, payload...)
	return l.link.Write(frame)
}
