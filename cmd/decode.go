package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/decoder"
	"firestige.xyz/strix/internal/report"
	"firestige.xyz/strix/internal/source"
)

var (
	decodeFile   string
	decodeFormat string
	decodeStrict bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [hex record]...",
	Short: "Decode capture records without running the agent",
	Long: `Decode one or more capture records and print them to stdout.

Records come either as hex string arguments or from a length-framed record
dump via -f. Malformed records are reported on stderr and skipped.

Examples:
  strix decode d80b40000000000000000600
  strix decode -f records.bin --format json`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDecode(args, os.Stdout, os.Stderr); err != nil {
			exitWithError("decode failed", err)
		}
	},
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "", "length-framed record dump to decode")
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "text", "output format: text or json")
	decodeCmd.Flags().BoolVar(&decodeStrict, "strict", false, "reject records with out-of-range fields")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(args []string, out, errOut io.Writer) error {
	if decodeFile == "" && len(args) == 0 {
		return fmt.Errorf("nothing to decode: pass hex records or -f")
	}

	console, err := report.NewConsoleReporter(map[string]interface{}{"format": decodeFormat})
	if err != nil {
		return err
	}
	console.SetOutput(out)

	dec := decoder.New(decoder.Options{Strict: decodeStrict})

	var decoded, rejected int
	decodeOne := func(data []byte, src string) {
		frame, err := dec.Decode(core.RawRecord{
			Data:      data,
			Timestamp: time.Now(),
			Source:    src,
		})
		if err != nil {
			fmt.Fprintf(errOut, "record rejected: %v\n", err)
			rejected++
			return
		}
		if err := console.Report(context.Background(), &frame); err != nil {
			fmt.Fprintf(errOut, "report failed: %v\n", err)
			rejected++
			return
		}
		decoded++
	}

	for i, arg := range args {
		data, err := hex.DecodeString(strings.ReplaceAll(arg, ":", ""))
		if err != nil {
			return fmt.Errorf("argument %d is not valid hex: %w", i+1, err)
		}
		decodeOne(data, "arg")
	}

	if decodeFile != "" {
		src := source.NewFileSource(decodeFile)
		if err := src.Start(context.Background()); err != nil {
			return err
		}
		defer src.Close()

		for {
			data, _, err := src.ReadRecord()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read dump: %w", err)
			}
			decodeOne(data, src.Name())
		}
	}

	if decoded == 0 && rejected > 0 {
		return fmt.Errorf("all %d record(s) rejected", rejected)
	}
	if rejected > 0 {
		fmt.Fprintf(errOut, "%d record(s) rejected, %d decoded\n", rejected, decoded)
	}
	return nil
}
