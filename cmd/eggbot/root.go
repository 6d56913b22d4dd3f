package main

import (
	"fmt"
	"log"

	"eggbot/config"
	"eggbot/host"

	"github.com/spf13/cobra"
)

var (
	flagPort        string
	flagModel       string
	flagBaud        int
	flagNoBootstrap bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "eggbot",
	Short: "Drive an egg printer over its serial listener protocol",
	Long: "The eggbot tool talks to the egg printer's microcontroller listener\n" +
		"over a serial link: it handshakes, moves the pen and draws.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// Execute runs the command tree.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "serial device path (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "controller board model (default: from config)")
	rootCmd.PersistentFlags().IntVar(&flagBaud, "baud", 0, "baud rate override")
	rootCmd.PersistentFlags().BoolVar(&flagNoBootstrap, "no-bootstrap", false, "never reflash a stale listener")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}

// sessionOptions merges the config file with command-line overrides.
func sessionOptions() (host.Options, error) {
	conf, err := config.Load()
	if err != nil {
		return host.Options{}, fmt.Errorf("failed to load config: %w", err)
	}

	opts := host.Options{
		Model:         conf.Model,
		Port:          conf.Port,
		Baud:          conf.Baud,
		AutoBootstrap: conf.AutoBootstrap,
	}
	if flagPort != "" {
		opts.Port = flagPort
	}
	if flagModel != "" {
		opts.Model = flagModel
	}
	if flagBaud != 0 {
		opts.Baud = flagBaud
	}
	if flagNoBootstrap {
		opts.AutoBootstrap = false
	}
	return opts, nil
}

// openSession opens a ready session per the merged options.
func openSession() (*host.Session, error) {
	opts, err := sessionOptions()
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		log.Printf("opening session: model=%s port=%q bootstrap=%v",
			opts.Model, opts.Port, opts.AutoBootstrap)
	}
	return host.Open(opts)
}
