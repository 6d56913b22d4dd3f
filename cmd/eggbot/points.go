package main

import (
	"fmt"
	"strconv"
	"strings"

	"eggbot/protocol"
)

// parsePoint parses "x,y" with both axes in the signed 16-bit range.
func parsePoint(arg string) (protocol.Point, error) {
	xs, ys, ok := strings.Cut(arg, ",")
	if !ok {
		return protocol.Point{}, fmt.Errorf("point %q: want \"x,y\"", arg)
	}

	x, err := strconv.Atoi(xs)
	if err != nil {
		return protocol.Point{}, fmt.Errorf("point %q: %w", arg, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return protocol.Point{}, fmt.Errorf("point %q: %w", arg, err)
	}
	if x < -32768 || x > 32767 || y < -32768 || y > 32767 {
		return protocol.Point{}, fmt.Errorf("point %q: coordinates exceed the 16-bit range", arg)
	}
	return protocol.Point{X: int16(x), Y: int16(y)}, nil
}
