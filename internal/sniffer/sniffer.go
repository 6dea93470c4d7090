// Package sniffer wires a record source, the decoder, and the configured
// reporters into a running capture agent.
package sniffer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"

	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/decoder"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/metrics"
	"firestige.xyz/strix/internal/report"
	"firestige.xyz/strix/internal/source"
)

const (
	warnsPerWindow = 10
	warnWindow     = 10 * time.Second
)

// Sniffer runs the read, decode, report loop.
type Sniffer struct {
	cfg       *config.GlobalConfig
	src       source.Source
	dec       *decoder.Decoder
	reporters []report.Reporter
	limiter   *LogRateLimiter
}

// New builds a sniffer from configuration. Reporters are opened eagerly so a
// bad sink fails startup instead of the first record.
func New(cfg *config.GlobalConfig) (*Sniffer, error) {
	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}

	reporters := make([]report.Reporter, 0, len(cfg.Reporters))
	for _, rc := range cfg.Reporters {
		r, err := report.New(rc)
		if err != nil {
			for _, open := range reporters {
				open.Close()
			}
			return nil, err
		}
		reporters = append(reporters, r)
	}

	return &Sniffer{
		cfg: cfg,
		src: src,
		dec: decoder.New(decoder.Options{
			Strict:       cfg.Decoder.Strict,
			MaxSubFrames: cfg.Decoder.MaxSubFrames,
		}),
		reporters: reporters,
		limiter:   NewLogRateLimiter(warnsPerWindow, warnWindow),
	}, nil
}

// Run reads records until the context ends, the capture is exhausted, or the
// source fails. Malformed records are counted and skipped, never fatal.
func (s *Sniffer) Run(ctx context.Context) error {
	logger := log.GetLogger().WithField("source", s.src.Name())

	if s.cfg.Metrics.Enabled {
		srv := metrics.NewServer(s.cfg.Metrics.Listen, s.cfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer srv.Stop(context.Background())
	}

	if err := s.src.Start(ctx); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}
	defer s.src.Close()

	// A blocked ReadRecord only returns once the transport is closed, so
	// cancellation closes the source out from under it.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.src.Close()
		case <-done:
		}
	}()

	logger.Info("sniffer started")

	for {
		data, ci, err := s.src.ReadRecord()
		if err != nil {
			switch {
			case errors.Is(err, core.ErrSourceClosed):
				logger.Info("source closed, sniffer stopping")
				return nil
			case errors.Is(err, io.EOF):
				logger.Info("end of capture reached")
				return nil
			default:
				metrics.SourceErrorsTotal.WithLabelValues(s.src.Name()).Inc()
				return fmt.Errorf("source read failed: %w", err)
			}
		}
		s.handleRecord(ctx, data, ci)
	}
}

func (s *Sniffer) handleRecord(ctx context.Context, data []byte, ci gopacket.CaptureInfo) {
	metrics.RecordBytesTotal.Add(float64(len(data)))

	frame, err := s.dec.Decode(core.RawRecord{
		Data:      data,
		Timestamp: ci.Timestamp,
		Source:    s.src.Name(),
	})
	if err != nil {
		reason := decodeReason(err)
		metrics.DecodeErrorsTotal.WithLabelValues(reason).Inc()
		if s.limiter.Allow(reason, time.Now()) {
			log.GetLogger().WithError(err).WithField("len", len(data)).Warn("record rejected")
		}
		return
	}

	metrics.RecordsTotal.WithLabelValues(frame.Variant.String()).Inc()
	metrics.RSSIDbm.Observe(float64(frame.Metadata.RSSI))
	if n := len(frame.SubFrames); n > 0 {
		metrics.SubFramesTotal.Add(float64(n))
	}

	// In strict mode an out-of-range field already failed the decode above.
	// Here the record is kept and the field only flagged.
	if !s.cfg.Decoder.Strict {
		if verr := decoder.ValidateMetadata(frame.Metadata); verr != nil {
			metrics.FieldAnomaliesTotal.WithLabelValues("mcs").Inc()
			if s.limiter.Allow("field-anomaly", time.Now()) {
				log.GetLogger().WithError(verr).Warn("metadata field outside documented range")
			}
		}
	}

	for _, r := range s.reporters {
		if err := r.Report(ctx, &frame); err != nil {
			metrics.ReporterErrorsTotal.WithLabelValues(r.Name()).Inc()
			if s.limiter.Allow("reporter:"+r.Name(), time.Now()) {
				log.GetLogger().WithError(err).WithField("reporter", r.Name()).Warn("reporter failed")
			}
		}
	}
}

// Close flushes and closes all reporters.
func (s *Sniffer) Close() error {
	var firstErr error
	for _, r := range s.reporters {
		if err := r.Close(); err != nil {
			log.GetLogger().WithError(err).WithField("reporter", r.Name()).Error("failed to close reporter")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// decodeReason maps a decode error to its metrics label.
func decodeReason(err error) string {
	switch {
	case errors.Is(err, core.ErrTruncatedBuffer):
		return "truncated"
	case errors.Is(err, core.ErrUnrecognizedLength):
		return "unrecognized-length"
	case errors.Is(err, core.ErrEmptyAggregate):
		return "empty-aggregate"
	case errors.Is(err, core.ErrFieldOutOfRange):
		return "field-out-of-range"
	default:
		return "other"
	}
}
