// Package report delivers decoded frames to configured sinks. Reporters are
// deliberately dumb: classification and length resolution happened in the
// decoder, a reporter only serializes what it is handed.
package report

import (
	"context"
	"fmt"

	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/core"
)

// Reporter consumes decoded frames.
type Reporter interface {
	// Name identifies the reporter in logs and metrics.
	Name() string

	// Report delivers one decoded frame.
	Report(ctx context.Context, frame *core.Frame) error

	// Close flushes buffered output and releases the sink.
	Close() error
}

// New creates a reporter from configuration.
func New(cfg config.ReporterConfig) (Reporter, error) {
	switch cfg.Type {
	case "console":
		return NewConsoleReporter(cfg.Options)
	case "jsonl":
		return NewJSONLReporter(cfg.Options)
	case "pcap":
		return NewPcapReporter(cfg.Options)
	default:
		return nil, fmt.Errorf("unsupported reporter type: %s", cfg.Type)
	}
}
