package report

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/mitchellh/mapstructure"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/log"
)

// pcapSnapLen is the snaplen advertised in the file header. Records carry at
// most the 36 byte frame head, but the conventional value keeps every pcap
// tool happy.
const pcapSnapLen = 65536

// PcapConfig holds pcap reporter options.
type PcapConfig struct {
	Path string `mapstructure:"path"`
}

// PcapReporter writes the captured frame heads to a pcap file readable by
// wireshark and tcpdump. Each packet record carries the 36 bytes the
// firmware preserved, with the original length set to the resolved frame
// length so analyzers display the true size of the truncated frame.
// Control-only records carry no frame bytes and are skipped.
type PcapReporter struct {
	path     string
	file     *os.File
	w        *pcapgo.Writer
	reported atomic.Uint64
	skipped  atomic.Uint64
}

// NewPcapReporter creates a pcap reporter from raw options.
func NewPcapReporter(options map[string]interface{}) (*PcapReporter, error) {
	var cfg PcapConfig
	if err := mapstructure.Decode(options, &cfg); err != nil {
		return nil, fmt.Errorf("pcap reporter: invalid options: %w", err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("pcap reporter: path is required")
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("pcap reporter: failed to create %s: %w", cfg.Path, err)
	}

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(pcapSnapLen, layers.LinkTypeIEEE802_11); err != nil {
		f.Close()
		return nil, fmt.Errorf("pcap reporter: failed to write file header: %w", err)
	}

	return &PcapReporter{
		path: cfg.Path,
		file: f,
		w:    w,
	}, nil
}

func (r *PcapReporter) Name() string {
	return "pcap"
}

func (r *PcapReporter) Report(ctx context.Context, frame *core.Frame) error {
	if frame == nil {
		return fmt.Errorf("pcap reporter: nil frame")
	}
	if len(frame.FrameHead) == 0 {
		r.skipped.Add(1)
		return nil
	}

	origLen := int(frame.ResolvedLength)
	if origLen < len(frame.FrameHead) {
		// A frame can't be shorter than the bytes we hold of it. Firmware
		// length estimates are occasionally nonsense.
		origLen = len(frame.FrameHead)
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     frame.Timestamp,
		CaptureLength: len(frame.FrameHead),
		Length:        origLen,
	}
	if err := r.w.WritePacket(ci, frame.FrameHead); err != nil {
		return fmt.Errorf("pcap reporter: write failed: %w", err)
	}
	r.reported.Add(1)
	return nil
}

func (r *PcapReporter) Close() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("pcap reporter: close failed: %w", err)
	}
	log.GetLogger().WithFields(map[string]interface{}{
		"path":     r.path,
		"reported": r.reported.Load(),
		"skipped":  r.skipped.Load(),
	}).Info("pcap reporter closed")
	return nil
}
