package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/log"
)

// JSONLConfig holds jsonl reporter options.
type JSONLConfig struct {
	Path string `mapstructure:"path"`
}

// JSONLReporter appends one JSON object per frame to a file. The format is
// the same as the console reporter's json mode, which makes a jsonl dump
// greppable with the exact field names an operator sees on screen.
type JSONLReporter struct {
	path     string
	file     *os.File
	bw       *bufio.Writer
	enc      *json.Encoder
	reported atomic.Uint64
}

// NewJSONLReporter creates a jsonl reporter from raw options.
func NewJSONLReporter(options map[string]interface{}) (*JSONLReporter, error) {
	var cfg JSONLConfig
	if err := mapstructure.Decode(options, &cfg); err != nil {
		return nil, fmt.Errorf("jsonl reporter: invalid options: %w", err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("jsonl reporter: path is required")
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("jsonl reporter: failed to open %s: %w", cfg.Path, err)
	}

	bw := bufio.NewWriter(f)
	return &JSONLReporter{
		path: cfg.Path,
		file: f,
		bw:   bw,
		enc:  json.NewEncoder(bw),
	}, nil
}

func (r *JSONLReporter) Name() string {
	return "jsonl"
}

func (r *JSONLReporter) Report(ctx context.Context, frame *core.Frame) error {
	if frame == nil {
		return fmt.Errorf("jsonl reporter: nil frame")
	}
	if err := r.enc.Encode(newFrameJSON(frame)); err != nil {
		return fmt.Errorf("jsonl reporter: encode failed: %w", err)
	}
	r.reported.Add(1)
	return nil
}

func (r *JSONLReporter) Close() error {
	if err := r.bw.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("jsonl reporter: flush failed: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("jsonl reporter: close failed: %w", err)
	}
	log.GetLogger().WithFields(map[string]interface{}{
		"path":     r.path,
		"reported": r.reported.Load(),
	}).Info("jsonl reporter closed")
	return nil
}
