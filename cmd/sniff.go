package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/sniffer"
)

var sniffCmd = &cobra.Command{
	Use:   "sniff",
	Short: "Run the capture agent",
	Long: `
Run the capture agent: listen for records, decode them, and feed the
configured reporters until interrupted.

Examples:
  strix sniff                               # Run with /etc/strix/config.yml
  strix sniff -c config.yml                 # Run with a specific config file
`,
	Run: func(cmd *cobra.Command, args []string) {
		runSniff()
	},
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}

func runSniff() {
	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError("failed to load config", err)
	}
	log.Init(&cfg.Log)

	sn, err := sniffer.New(cfg)
	if err != nil {
		exitWithError("failed to build sniffer", err)
	}
	defer sn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-signals
		cancel()
	}()

	if err := sn.Run(ctx); err != nil {
		exitWithError("sniffer failed", err)
	}
}
