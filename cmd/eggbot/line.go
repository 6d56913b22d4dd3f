package main

import (
	"github.com/spf13/cobra"
)

var lineCmd = &cobra.Command{
	Use:   "line x1,y1 x2,y2",
	Short: "Draw a straight segment between two points",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePoint(args[0])
		if err != nil {
			return err
		}
		to, err := parsePoint(args[1])
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Begin(); err != nil {
			return err
		}
		if err := s.Line(from, to); err != nil {
			return err
		}
		return s.End()
	},
}

func init() {
	rootCmd.AddCommand(lineCmd)
}
