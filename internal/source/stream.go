package source

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"

	"firestige.xyz/strix/internal/core"
)

// StreamSource reads length-framed records from a byte stream. Each record
// is preceded by a little-endian uint16 byte count. Relays that forward
// firmware records over TCP use this framing, and raw capture dumps on disk
// use the same layout.
type StreamSource struct {
	name string
	open func(ctx context.Context) (io.ReadCloser, error)

	rc io.ReadCloser
	br *bufio.Reader
}

// NewTCPSource connects to a record relay and reads framed records from it.
func NewTCPSource(addr string) *StreamSource {
	return &StreamSource{
		name: "tcp:" + addr,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			var d net.Dialer
			conn, err := d.DialContext(ctx, "tcp", addr)
			if err != nil {
				return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
			}
			return conn, nil
		},
	}
}

// NewFileSource replays framed records from a capture dump.
func NewFileSource(path string) *StreamSource {
	return &StreamSource{
		name: "file:" + path,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open capture file: %w", err)
			}
			return f, nil
		},
	}
}

func (s *StreamSource) Start(ctx context.Context) error {
	rc, err := s.open(ctx)
	if err != nil {
		return err
	}
	s.rc = rc
	s.br = bufio.NewReader(rc)
	return nil
}

func (s *StreamSource) ReadRecord() ([]byte, gopacket.CaptureInfo, error) {
	if s.br == nil {
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("stream source not started")
	}

	var hdr [2]byte
	if _, err := io.ReadFull(s.br, hdr[:]); err != nil {
		if err == io.EOF {
			// Clean end of stream, on a frame boundary.
			return nil, gopacket.CaptureInfo{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, gopacket.CaptureInfo{}, fmt.Errorf("%w: stream ended inside a frame header", core.ErrBadFraming)
		}
		return nil, gopacket.CaptureInfo{}, s.mapReadErr(err)
	}
	n := int(binary.LittleEndian.Uint16(hdr[:]))

	data := make([]byte, n)
	if _, err := io.ReadFull(s.br, data); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, gopacket.CaptureInfo{}, fmt.Errorf("%w: stream ended inside a %d byte frame", core.ErrBadFraming, n)
		}
		return nil, gopacket.CaptureInfo{}, s.mapReadErr(err)
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: n,
		Length:        n,
	}
	return data, ci, nil
}

func (s *StreamSource) mapReadErr(err error) error {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrClosed) {
		return core.ErrSourceClosed
	}
	return fmt.Errorf("failed to read stream: %w", err)
}

func (s *StreamSource) Name() string {
	return s.name
}

func (s *StreamSource) Close() error {
	if s.rc == nil {
		return nil
	}
	return s.rc.Close()
}
