package main

import (
	"github.com/spf13/cobra"
)

var dotCmd = &cobra.Command{
	Use:   "dot x,y",
	Short: "Place a dot at a point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parsePoint(args[0])
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
		if err := s.Dot(at); err != nil {
			return err
		}
		return s.End()
	},
}

func init() {
	rootCmd.AddCommand(dotCmd)
}
