package main

import (
	"fmt"

	"eggbot/protocol"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Handshake with the listener and report its version",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		major, minor, err := s.Handshake()
		if err != nil {
			return err
		}
		fmt.Printf("Listener protocol version: %d.%d\n", major, minor)
		fmt.Printf("Host protocol version:     %d.%d\n", protocol.VersionMajor, protocol.VersionMinor)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
