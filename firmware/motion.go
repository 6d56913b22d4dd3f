package firmware

import "time"

// Canvas geometry, fixed at build time. X is cylindrical: the egg's
// circumference is CanvasWidth steps and non-drawing moves may wrap around
// it. Y is bounded and clamps.
const (
	CanvasWidth  = 1600
	CanvasHeight = 420
	OriginX      = 0
	OriginY      = CanvasHeight / 2
)

// Pen servo positions and timing.
const (
	penDownAngle = 140
	penUpAngle   = 170
	penSettle    = 200 * time.Millisecond

	// Step pulses hold each level for this long; the walkers block, so no
	// command is accepted while a previous command is still in motion.
	stepHalfPeriod = 2 * time.Millisecond
)

// Motion owns the stepper pins, the pen servo and the current pen
// position. All state is mutated only from the listener loop.
type Motion struct {
	x     Axis
	y     Axis
	servo Servo
	clock Clock

	penDown bool
	penX    int
	penY    int
}

// NewMotion creates a motion kernel with the pen parked at the origin.
func NewMotion(x, y Axis, servo Servo, clock Clock) *Motion {
	return &Motion{
		x:     x,
		y:     y,
		servo: servo,
		clock: clock,
		penX:  OriginX,
		penY:  OriginY,
	}
}

// PenDown reports the persistent pen state.
func (m *Motion) PenDown() bool { return m.penDown }

// Position returns the current translated pen position.
func (m *Motion) Position() (x, y int) { return m.penX, m.penY }

// Enable drives both stepper ENABLE pins low (drivers active).
func (m *Motion) Enable() {
	m.x.Enable.Set(false)
	m.y.Enable.Set(false)
}

// Disable drives both stepper ENABLE pins high (drivers released).
func (m *Motion) Disable() {
	m.x.Enable.Set(true)
	m.y.Enable.Set(true)
}

// SetPen records the pen state, drives the servo and blocks while it
// settles.
func (m *Motion) SetPen(down bool) {
	m.penDown = down
	if down {
		m.servo.SetAngle(penDownAngle)
	} else {
		m.servo.SetAngle(penUpAngle)
	}
	m.clock.Sleep(penSettle)
}

// MoveTo walks to the logical target. Pen state picks the walker: down
// draws a straight Bresenham line, up flies the cylindrical shortest path.
// This routing is the only place pen state affects motion.
func (m *Motion) MoveTo(x, y int16) {
	tx, ty := translate(x, y)
	if m.penDown {
		m.lineTo(tx, ty)
	} else {
		m.flyTo(tx, ty)
	}
}

// translate shifts a logical coordinate by the canvas origin and clamps Y
// into the drawable band. X stays free; flyTo wraps it when it moves.
func translate(x, y int16) (tx, ty int) {
	tx = int(x) + OriginX
	ty = int(y) + OriginY
	if ty < 0 {
		ty = 0
	}
	if ty > CanvasHeight-1 {
		ty = CanvasHeight - 1
	}
	return tx, ty
}

// lineTo walks a Bresenham line to the translated target, pulsing the
// longer axis every step and the shorter one as the error term demands.
func (m *Motion) lineTo(tx, ty int) {
	dx := tx - m.penX
	dy := ty - m.penY

	// Sign picks direction; zero counts as forward.
	m.x.Dir.Set(dx >= 0)
	m.y.Dir.Set(dy >= 0)

	adx, ady := abs(dx), abs(dy)
	longer, shorter := adx, ady
	pinLonger, pinShorter := m.x.Step, m.y.Step
	if ady > adx {
		longer, shorter = ady, adx
		pinLonger, pinShorter = m.y.Step, m.x.Step
	}

	diff := 2*shorter - longer
	for l := 0; l < longer; l++ {
		pinLonger.Set(true)
		if diff > 0 {
			pinShorter.Set(true)
		}
		m.clock.Sleep(stepHalfPeriod)
		pinLonger.Set(false)
		if diff > 0 {
			pinShorter.Set(false)
			diff -= 2 * longer
		}
		m.clock.Sleep(stepHalfPeriod)
		diff += 2 * shorter
	}

	m.penX, m.penY = tx, ty
}

// flyTo walks both axes simultaneously to the translated target, taking
// the short way around the cylinder in X.
func (m *Motion) flyTo(tx, ty int) {
	dx := mod(tx-m.penX, CanvasWidth)
	if dx > CanvasWidth/2 {
		dx -= CanvasWidth
	}
	dy := ty - m.penY

	m.x.Dir.Set(dx >= 0)
	m.y.Dir.Set(dy >= 0)

	adx, ady := abs(dx), abs(dy)
	steps := adx
	if ady > steps {
		steps = ady
	}
	for s := 0; s < steps; s++ {
		if s < adx {
			m.x.Step.Set(true)
		}
		if s < ady {
			m.y.Step.Set(true)
		}
		m.clock.Sleep(stepHalfPeriod)
		if s < adx {
			m.x.Step.Set(false)
		}
		if s < ady {
			m.y.Step.Set(false)
		}
		m.clock.Sleep(stepHalfPeriod)
	}

	// The recorded position is the translated target, not the wrapped
	// intermediate.
	m.penX, m.penY = tx, ty
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// mod is a true modulo: the result is in [0, m) regardless of the sign of
// v. Go's % can go negative.
func mod(v, m int) int {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
