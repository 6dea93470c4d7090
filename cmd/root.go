// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strix",
	Short: "Strix - promiscuous-mode WiFi capture record decoder",
	Long: `Strix ingests the capture records that ESP8266-class WiFi probes emit in
promiscuous mode. Every record starts with a 12-byte receive descriptor of
bit-packed radio metadata; depending on what the firmware preserved, the
descriptor is followed by a partial frame with a length tail, or by a
sub-frame length table for aggregated traffic.

Strix classifies each record by its size, decodes the descriptor, resolves
the authoritative frame length, and hands the decoded frame to console,
jsonl, or pcap reporters.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/strix/config.yml",
		"config file path")
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
