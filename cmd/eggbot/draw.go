package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"eggbot/host"
	"eggbot/protocol"

	"github.com/spf13/cobra"
)

var drawCmd = &cobra.Command{
	Use:   "draw file",
	Short: "Draw polylines from a file",
	Long: "Draw polylines from a text file. Each line holds one \"x,y\" point;\n" +
		"blank lines separate polylines. The pen flies to the first point of\n" +
		"each polyline and draws through the rest.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		polylines, err := readPolylines(args[0])
		if err != nil {
			return err
		}
		if len(polylines) == 0 {
			return fmt.Errorf("%s: no points to draw", args[0])
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Begin(); err != nil {
			return err
		}
		for i, poly := range polylines {
			if flagVerbose {
				fmt.Printf("Polyline %d: %d points\n", i+1, len(poly))
			}
			if err := drawPolyline(s, poly); err != nil {
				return err
			}
		}
		return s.End()
	},
}

// drawPolyline flies to the first point, lowers the pen, and walks the
// remaining points in frame-sized Move batches.
func drawPolyline(s *host.Session, poly []protocol.Point) error {
	if _, err := s.Pen(protocol.PenUp); err != nil {
		return err
	}
	if _, err := s.Move(poly[:1]); err != nil {
		return err
	}
	if len(poly) == 1 {
		return s.Dot(poly[0])
	}
	if _, err := s.Pen(protocol.PenDown); err != nil {
		return err
	}
	rest := poly[1:]
	for len(rest) > 0 {
		batch := rest
		if len(batch) > protocol.MaxMovePoints {
			batch = batch[:protocol.MaxMovePoints]
		}
		if _, err := s.Move(batch); err != nil {
			return err
		}
		rest = rest[len(batch):]
	}
	return nil
}

// readPolylines parses the draw file format.
func readPolylines(path string) ([][]protocol.Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var polylines [][]protocol.Point
	var current []protocol.Point

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			if len(current) > 0 {
				polylines = append(polylines, current)
				current = nil
			}
			continue
		}
		p, err := parsePoint(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		current = append(current, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		polylines = append(polylines, current)
	}
	return polylines, nil
}

func init() {
	rootCmd.AddCommand(drawCmd)
}
