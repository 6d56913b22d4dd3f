package main

import (
	"fmt"

	"eggbot/protocol"

	"github.com/spf13/cobra"
)

var penCmd = &cobra.Command{
	Use:       "pen {up|down}",
	Short:     "Raise or lower the pen",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var state protocol.PenState
		switch args[0] {
		case "up":
			state = protocol.PenUp
		case "down":
			state = protocol.PenDown
		default:
			return fmt.Errorf("pen state must be \"up\" or \"down\", got %q", args[0])
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		got, err := s.Pen(state)
		if err != nil {
			return err
		}
		fmt.Printf("Pen is %s.\n", got)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(penCmd)
}
