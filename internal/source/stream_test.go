package source

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"firestige.xyz/strix/internal/core"
)

// frame prepends the little-endian length header to a record.
func frame(data []byte) []byte {
	buf := make([]byte, 2+len(data))
	binary.LittleEndian.PutUint16(buf, uint16(len(data)))
	copy(buf[2:], data)
	return buf
}

func writeDump(t *testing.T, frames ...[]byte) string {
	t.Helper()
	var buf bytes.Buffer
	for _, f := range frames {
		buf.Write(f)
	}
	path := filepath.Join(t.TempDir(), "records.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write dump: %v", err)
	}
	return path
}

func TestFileSourceReplay(t *testing.T) {
	rec1 := bytes.Repeat([]byte{0x11}, 12)
	rec2 := bytes.Repeat([]byte{0x22}, 60)
	path := writeDump(t, frame(rec1), frame(rec2))

	s := NewFileSource(path)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	data, ci, err := s.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if !bytes.Equal(data, rec1) {
		t.Errorf("first record = % x, want % x", data, rec1)
	}
	if ci.CaptureLength != 12 || ci.Length != 12 {
		t.Errorf("capture info lengths = %d/%d, want 12/12", ci.CaptureLength, ci.Length)
	}

	data, _, err = s.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if !bytes.Equal(data, rec2) {
		t.Errorf("second record = % x, want % x", data, rec2)
	}

	if _, _, err := s.ReadRecord(); err != io.EOF {
		t.Errorf("expected io.EOF at end of dump, got %v", err)
	}
}

func TestFileSourceTruncatedPayload(t *testing.T) {
	// Header promises 10 bytes, only 4 follow.
	dump := frame(bytes.Repeat([]byte{0x33}, 10))[:6]
	path := writeDump(t, dump)

	s := NewFileSource(path)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	_, _, err := s.ReadRecord()
	if !errors.Is(err, core.ErrBadFraming) {
		t.Errorf("expected ErrBadFraming, got %v", err)
	}
}

func TestFileSourceTruncatedHeader(t *testing.T) {
	rec := bytes.Repeat([]byte{0x44}, 12)
	path := writeDump(t, frame(rec), []byte{0x05})

	s := NewFileSource(path)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	if _, _, err := s.ReadRecord(); err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	_, _, err := s.ReadRecord()
	if !errors.Is(err, core.ErrBadFraming) {
		t.Errorf("expected ErrBadFraming after dangling header byte, got %v", err)
	}
}

func TestFileSourceEmptyFrame(t *testing.T) {
	path := writeDump(t, frame(nil), frame([]byte{0x55}))

	s := NewFileSource(path)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	// A zero-length frame is valid framing; judging record contents is the
	// decoder's job.
	data, _, err := s.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty record, got %d bytes", len(data))
	}

	data, _, err = s.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x55}) {
		t.Errorf("record after empty frame = % x, want 55", data)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	s := NewFileSource("/nonexistent/records.bin")
	if err := s.Start(context.Background()); err == nil {
		s.Close()
		t.Error("expected error for missing capture file")
	}
}

func TestTCPSourceRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()

	rec1 := bytes.Repeat([]byte{0x66}, 12)
	rec2 := bytes.Repeat([]byte{0x77}, 50)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write(frame(rec1))
		conn.Write(frame(rec2))
		conn.Close()
	}()

	s := NewTCPSource(ln.Addr().String())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	data, _, err := s.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if !bytes.Equal(data, rec1) {
		t.Errorf("first record = % x, want % x", data, rec1)
	}

	data, _, err = s.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if !bytes.Equal(data, rec2) {
		t.Errorf("second record = % x, want % x", data, rec2)
	}

	// Relay hung up on a frame boundary.
	if _, _, err := s.ReadRecord(); err != io.EOF {
		t.Errorf("expected io.EOF after relay close, got %v", err)
	}
}

func TestTCPSourceCloseUnblocksRead(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		// Hold the connection open without sending anything.
		time.Sleep(5 * time.Second)
		conn.Close()
	}()

	s := NewTCPSource(ln.Addr().String())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, _, err := s.ReadRecord()
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, core.ErrSourceClosed) {
			t.Errorf("expected ErrSourceClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("ReadRecord didn't unblock after Close")
	}
}

func TestTCPSourceDialFailure(t *testing.T) {
	// Grab a port and close it again so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	s := NewTCPSource(addr)
	if err := s.Start(context.Background()); err == nil {
		s.Close()
		t.Error("expected error dialing closed port")
	}
}
