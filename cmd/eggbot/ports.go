package main

import (
	"fmt"

	"eggbot/host/serial"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List candidate serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found.")
			return nil
		}
		for _, name := range ports {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
