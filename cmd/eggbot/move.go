package main

import (
	"fmt"

	"eggbot/protocol"

	"github.com/spf13/cobra"
)

var movePenDown bool

var moveCmd = &cobra.Command{
	Use:   "move x1,y1 [x2,y2 ...]",
	Short: "Walk the pen through a sequence of points",
	Long: "Walk the pen through a sequence of points. With --draw the pen is\n" +
		"lowered first, so every leg draws; otherwise each leg flies the short\n" +
		"way around the egg.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points := make([]protocol.Point, 0, len(args))
		for _, arg := range args {
			p, err := parsePoint(arg)
			if err != nil {
				return err
			}
			points = append(points, p)
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Begin(); err != nil {
			return err
		}
		if _, err := s.Pen(penStateFor(movePenDown)); err != nil {
			return err
		}
		count, err := s.Move(points)
		if err != nil {
			return err
		}
		if flagVerbose {
			fmt.Printf("Listener walked %d of %d points.\n", count, len(points))
		}
		return s.End()
	},
}

func penStateFor(down bool) protocol.PenState {
	if down {
		return protocol.PenDown
	}
	return protocol.PenUp
}

func init() {
	moveCmd.Flags().BoolVar(&movePenDown, "draw", false, "lower the pen before moving")
	rootCmd.AddCommand(moveCmd)
}
