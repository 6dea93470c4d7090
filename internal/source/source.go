// Package source provides record feeds for the sniffer. A source delivers
// raw capture records exactly as the firmware emitted them; framing and
// transport details stay here so the decoder only ever sees record bytes.
package source

import (
	"context"
	"fmt"

	"github.com/google/gopacket"

	"firestige.xyz/strix/internal/config"
)

// Source is a feed of raw capture records.
type Source interface {
	// Start opens the underlying transport.
	Start(ctx context.Context) error

	// ReadRecord blocks until the next record arrives. The returned slice is
	// owned by the caller. After Close it returns core.ErrSourceClosed; a
	// file source returns io.EOF at the end of the capture.
	ReadRecord() ([]byte, gopacket.CaptureInfo, error)

	// Name identifies the source in logs and metrics, e.g. "udp::5555".
	Name() string

	// Close shuts the transport down and unblocks any pending ReadRecord.
	Close() error
}

// New creates a source from configuration.
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case "udp":
		return NewUDPSource(cfg.Listen, cfg.ReadBuffer), nil
	case "tcp":
		return NewTCPSource(cfg.Addr), nil
	case "file":
		return NewFileSource(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}
