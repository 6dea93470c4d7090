package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"

	"firestige.xyz/strix/internal/core"
)

// maxDatagram bounds a single record datagram. Firmware records top out well
// below this even with a full sub-frame table.
const maxDatagram = 4096

// UDPSource receives one capture record per datagram. This matches the
// firmware side, which posts each sniffer callback buffer as a single send.
type UDPSource struct {
	listen     string
	readBuffer int

	conn *net.UDPConn
	buf  []byte
}

func NewUDPSource(listen string, readBuffer int) *UDPSource {
	return &UDPSource{
		listen:     listen,
		readBuffer: readBuffer,
		buf:        make([]byte, maxDatagram),
	}
}

func (s *UDPSource) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", s.listen)
	if err != nil {
		return fmt.Errorf("failed to resolve listen address %s: %w", s.listen, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listen, err)
	}
	if s.readBuffer > 0 {
		// Bursts from many probes arrive faster than the decode loop drains
		// them; a larger socket buffer absorbs the spikes.
		if err := conn.SetReadBuffer(s.readBuffer); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set read buffer: %w", err)
		}
	}
	s.conn = conn
	return nil
}

func (s *UDPSource) ReadRecord() ([]byte, gopacket.CaptureInfo, error) {
	if s.conn == nil {
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("udp source not started")
	}

	n, _, err := s.conn.ReadFromUDP(s.buf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, gopacket.CaptureInfo{}, core.ErrSourceClosed
		}
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("failed to read datagram: %w", err)
	}

	// The read buffer is reused, so hand out a copy.
	data := make([]byte, n)
	copy(data, s.buf[:n])

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: n,
		Length:        n,
	}
	return data, ci, nil
}

// LocalAddr reports the bound address, useful when listening on port 0.
func (s *UDPSource) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *UDPSource) Name() string {
	return "udp:" + s.listen
}

func (s *UDPSource) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
