package protocol

import "encoding/binary"

// PointSize is the encoded size of a Point on the wire.
const PointSize = 4

// MaxMovePoints is the most points one Move frame can carry: the payload
// length travels as a single byte.
const MaxMovePoints = 0xFF / PointSize

// Point is a logical plotter coordinate. Both axes travel the wire as
// big-endian signed 16-bit integers.
type Point struct {
	X int16
	Y int16
}

// AppendPoint appends the wire encoding of p to b.
func AppendPoint(b []byte, p Point) []byte {
	b = binary.BigEndian.AppendUint16(b, uint16(p.X))
	b = binary.BigEndian.AppendUint16(b, uint16(p.Y))
	return b
}

// DecodePoint decodes a Point from the first PointSize bytes of b.
func DecodePoint(b []byte) Point {
	return Point{
		X: int16(binary.BigEndian.Uint16(b[0:2])),
		Y: int16(binary.BigEndian.Uint16(b[2:4])),
	}
}

// PenState is the pen servo position. On the wire it is a single byte; the
// listener treats any nonzero byte as PenDown.
type PenState byte

const (
	PenUp   PenState = 0
	PenDown PenState = 1
)

func (s PenState) String() string {
	if s == PenUp {
		return "up"
	}
	return "down"
}
