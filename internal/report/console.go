package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/log"
)

// ConsoleConfig holds console reporter options.
type ConsoleConfig struct {
	Format string `mapstructure:"format"` // "text" or "json", default "text"
}

// ConsoleReporter writes decoded frames to stdout in human-readable form.
type ConsoleReporter struct {
	format   string
	out      io.Writer
	reported atomic.Uint64
}

// NewConsoleReporter creates a console reporter from raw options.
func NewConsoleReporter(options map[string]interface{}) (*ConsoleReporter, error) {
	var cfg ConsoleConfig
	if err := mapstructure.Decode(options, &cfg); err != nil {
		return nil, fmt.Errorf("console reporter: invalid options: %w", err)
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return nil, fmt.Errorf("console reporter: invalid format %q, must be text or json", cfg.Format)
	}
	return &ConsoleReporter{
		format: cfg.Format,
		out:    os.Stdout,
	}, nil
}

func (r *ConsoleReporter) Name() string {
	return "console"
}

// SetOutput redirects the reporter away from stdout.
func (r *ConsoleReporter) SetOutput(w io.Writer) {
	r.out = w
}

func (r *ConsoleReporter) Report(ctx context.Context, frame *core.Frame) error {
	if frame == nil {
		return fmt.Errorf("console reporter: nil frame")
	}

	r.reported.Add(1)

	if r.format == "json" {
		return r.reportJSON(frame)
	}
	return r.reportText(frame)
}

func (r *ConsoleReporter) reportJSON(frame *core.Frame) error {
	data, err := json.Marshal(newFrameJSON(frame))
	if err != nil {
		return fmt.Errorf("json marshal failed: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

func (r *ConsoleReporter) reportText(frame *core.Frame) error {
	m := frame.Metadata
	fmt.Fprintf(r.out, "[%s] %s rssi=%ddBm ch=%d len=%d",
		frame.Timestamp.Format("15:04:05.000"),
		frame.Variant,
		m.RSSI,
		m.Channel,
		frame.ResolvedLength,
	)

	if h := frame.Header; h != nil {
		fmt.Fprintf(r.out, " %s %s -> %s",
			dot11TypeName(h.Type(), h.Subtype()),
			macString(h.Address2),
			macString(h.Address1),
		)
		if h.Retry() {
			fmt.Fprint(r.out, " retry")
		}
	}

	if seq, ok := frame.SequenceNumber(); ok {
		fmt.Fprintf(r.out, " seq=%d", seq)
		if frag, _ := frame.FragmentNumber(); frag != 0 {
			fmt.Fprintf(r.out, ".%d", frag)
		}
	}

	if n := len(frame.SubFrames); n > 0 {
		fmt.Fprintf(r.out, " subframes=%d", n)
	}

	fmt.Fprintln(r.out)
	return nil
}

func (r *ConsoleReporter) Close() error {
	log.GetLogger().WithField("reported", r.reported.Load()).Info("console reporter closed")
	return nil
}
