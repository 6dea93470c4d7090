package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an agent configuration file",
	Long: `Validate an agent configuration file without starting the agent.

Unlike the lenient loader used at startup, validation rejects unknown keys,
so a misspelled option is caught here instead of being silently ignored.

Examples:
  strix validate -f config.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(validateConfigFile, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
			os.Exit(1)
		}
	},
}

var validateConfigFile string

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "file", "f", "",
		"configuration file to validate (required)")
	validateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string, out io.Writer) error {
	cfg, err := config.LoadStrict(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "VALID: %s source, %d reporter(s), log level %s\n",
		cfg.Source.Type,
		len(cfg.Reporters),
		cfg.Log.Level,
	)
	return nil
}
