//go:build arduino

// Arduino Uno target: wires the portable listener and motion kernel to the
// board's UART, stepper pins and pen servo.
package main

import (
	"machine"
	"time"

	"eggbot/firmware"

	"tinygo.org/x/drivers/servo"
)

// Pin assignment for the stock egg-printer shield.
const (
	pinXStep = machine.D2
	pinXDir  = machine.D5
	pinXEn   = machine.D7
	pinYStep = machine.D3
	pinYDir  = machine.D6
	pinYEn   = machine.D8
	pinServo = machine.D9
	uartBaud = 115200
)

func main() {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: uartBaud})

	for _, p := range []machine.Pin{pinXStep, pinXDir, pinXEn, pinYStep, pinYDir, pinYEn} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	// Drivers start released until Begin arrives.
	pinXEn.High()
	pinYEn.High()

	pen, err := servo.New(machine.Timer1, pinServo)
	if err != nil {
		// Without the servo there is nothing useful to do; signal via the
		// on-board LED and halt.
		led := machine.LED
		led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		for {
			led.High()
			time.Sleep(100 * time.Millisecond)
			led.Low()
			time.Sleep(100 * time.Millisecond)
		}
	}

	motion := firmware.NewMotion(
		firmware.Axis{Step: gpio{pinXStep}, Dir: gpio{pinXDir}, Enable: gpio{pinXEn}},
		firmware.Axis{Step: gpio{pinYStep}, Dir: gpio{pinYDir}, Enable: gpio{pinYEn}},
		&penServo{pen},
		firmware.SystemClock{},
	)

	listener := firmware.NewListener(&uartLink{uart: uart}, motion)
	for {
		listener.RunOnce()
	}
}

// gpio adapts a machine.Pin to the firmware Pin interface.
type gpio struct {
	pin machine.Pin
}

func (g gpio) Set(high bool) {
	if high {
		g.pin.High()
	} else {
		g.pin.Low()
	}
}

// penServo adapts the drivers servo to the firmware Servo interface.
type penServo struct {
	s servo.Servo
}

func (p *penServo) SetAngle(degrees int) {
	// Standard hobby-servo pulse range, 544us at 0 degrees to 2400us at
	// 180 degrees.
	us := 544 + degrees*(2400-544)/180
	p.s.SetMicroseconds(int16(us))
}

// uartLink adapts the hardware UART to the firmware Link interface. The
// receive buffer is the only asynchronous element; everything else polls.
type uartLink struct {
	uart *machine.UART
}

func (l *uartLink) ReadFull(p []byte, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for i := range p {
		for l.uart.Buffered() == 0 {
			if timeout > 0 && time.Now().After(deadline) {
				return firmware.ErrLinkTimeout
			}
		}
		b, err := l.uart.ReadByte()
		if err != nil {
			return err
		}
		p[i] = b
	}
	return nil
}

func (l *uartLink) Write(p []byte) error {
	_, err := l.uart.Write(p)
	return err
}
