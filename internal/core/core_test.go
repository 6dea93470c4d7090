package core

import (
	"errors"
	"fmt"
	"testing"
)

// Test zero values of core structs
func TestStructZeroValues(t *testing.T) {
	t.Run("RadioMetadata", func(t *testing.T) {
		var meta RadioMetadata
		if meta.RSSI != 0 {
			t.Errorf("expected RSSI=0, got %d", meta.RSSI)
		}
		if meta.IsHT() {
			t.Error("expected legacy modulation for zero SigMode")
		}
	})

	t.Run("Frame", func(t *testing.T) {
		var f Frame
		if f.FrameHead != nil {
			t.Errorf("expected FrameHead=nil, got %v", f.FrameHead)
		}
		if f.Header != nil {
			t.Errorf("expected Header=nil, got %v", f.Header)
		}
		if f.SubFrames != nil {
			t.Errorf("expected SubFrames=nil, got %v", f.SubFrames)
		}
		if f.HasReportedLength {
			t.Error("expected HasReportedLength=false")
		}
	})

	t.Run("RawRecord", func(t *testing.T) {
		var raw RawRecord
		if raw.Data != nil {
			t.Errorf("expected Data=nil, got %v", raw.Data)
		}
		if !raw.Timestamp.IsZero() {
			t.Errorf("expected zero Timestamp, got %v", raw.Timestamp)
		}
	})
}

func TestVariantString(t *testing.T) {
	tests := []struct {
		variant Variant
		want    string
	}{
		{VariantControlOnly, "control-only"},
		{VariantManagementSmall, "management"},
		{VariantDataLarge, "data"},
		{Variant(9), "variant(9)"},
	}

	for _, tt := range tests {
		if got := tt.variant.String(); got != tt.want {
			t.Errorf("Variant(%d).String() = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestMacHeaderFrameControl(t *testing.T) {
	// Beacon frame: version 0, type 0 (management), subtype 8, retry set.
	// Frame control is little-endian uint16 0x0880.
	h := MacHeader{FrameControl: 0x0880}

	if got := h.ProtocolVersion(); got != 0 {
		t.Errorf("expected version 0, got %d", got)
	}
	if got := h.Type(); got != 0 {
		t.Errorf("expected management type 0, got %d", got)
	}
	if got := h.Subtype(); got != 8 {
		t.Errorf("expected beacon subtype 8, got %d", got)
	}
	if !h.Retry() {
		t.Error("expected retry bit set")
	}
	if h.ToDS() || h.FromDS() || h.Protected() {
		t.Error("expected to-DS, from-DS and protected bits clear")
	}

	// QoS data frame: type 2, subtype 8, to-DS and protected set.
	h = MacHeader{FrameControl: 0x4188}
	if got := h.Type(); got != 2 {
		t.Errorf("expected data type 2, got %d", got)
	}
	if got := h.Subtype(); got != 8 {
		t.Errorf("expected QoS data subtype 8, got %d", got)
	}
	if !h.ToDS() {
		t.Error("expected to-DS bit set")
	}
	if !h.Protected() {
		t.Error("expected protected bit set")
	}
}

func TestSequenceControlSplit(t *testing.T) {
	// High 12 bits serial number, low 4 bits fragment number.
	h := MacHeader{SequenceControl: 0x1234}
	if got := h.SequenceNumber(); got != 0x123 {
		t.Errorf("expected sequence 0x123, got 0x%x", got)
	}
	if got := h.FragmentNumber(); got != 4 {
		t.Errorf("expected fragment 4, got %d", got)
	}

	s := SubFrameLength{Sequence: 0xFFF0}
	if got := s.SequenceNumber(); got != 0xFFF {
		t.Errorf("expected sequence 0xFFF, got 0x%x", got)
	}
	if got := s.FragmentNumber(); got != 0 {
		t.Errorf("expected fragment 0, got %d", got)
	}
}

func TestFrameSequenceHelpers(t *testing.T) {
	t.Run("ControlOnlyHasNone", func(t *testing.T) {
		f := Frame{Variant: VariantControlOnly, Sequence: 0x1234}
		if _, ok := f.SequenceNumber(); ok {
			t.Error("expected no sequence number for control-only record")
		}
		if _, ok := f.FragmentNumber(); ok {
			t.Error("expected no fragment number for control-only record")
		}
	})

	t.Run("ManagementSplit", func(t *testing.T) {
		f := Frame{Variant: VariantManagementSmall, Sequence: 0x1234}
		seq, ok := f.SequenceNumber()
		if !ok || seq != 0x123 {
			t.Errorf("expected sequence 0x123, got 0x%x (ok=%v)", seq, ok)
		}
		frag, ok := f.FragmentNumber()
		if !ok || frag != 4 {
			t.Errorf("expected fragment 4, got %d (ok=%v)", frag, ok)
		}
	})
}

func TestLikelySameTransmitter(t *testing.T) {
	a := RadioMetadata{RSSI: -40, FECCoding: true}
	b := RadioMetadata{RSSI: -43, FECCoding: true}
	c := RadioMetadata{RSSI: -40, FECCoding: false}

	if !a.LikelySameTransmitter(b, 5) {
		t.Error("expected match within rssi tolerance")
	}
	if a.LikelySameTransmitter(b, 2) {
		t.Error("expected mismatch outside rssi tolerance")
	}
	if a.LikelySameTransmitter(c, 5) {
		t.Error("expected mismatch on FEC flag")
	}
	if !a.LikelySameTransmitter(a, 0) {
		t.Error("expected identical observations to match")
	}
}

// Test sentinel errors
func TestSentinelErrors(t *testing.T) {
	t.Run("ErrorIdentity", func(t *testing.T) {
		// Sentinel errors should be identifiable with errors.Is
		if !errors.Is(ErrTruncatedBuffer, ErrTruncatedBuffer) {
			t.Error("errors.Is failed for ErrTruncatedBuffer")
		}

		wrapped := fmt.Errorf("record 17: %w", ErrUnrecognizedLength)
		if !errors.Is(wrapped, ErrUnrecognizedLength) {
			t.Error("errors.Is failed for wrapped ErrUnrecognizedLength")
		}
	})

	t.Run("ErrorMessages", func(t *testing.T) {
		tests := []struct {
			err     error
			message string
		}{
			{ErrTruncatedBuffer, "strix: buffer shorter than receive descriptor"},
			{ErrUnrecognizedLength, "strix: record length matches no known layout"},
			{ErrEmptyAggregate, "strix: aggregate record with zero sub-frames"},
			{ErrFieldOutOfRange, "strix: field value outside documented range"},
			{ErrSourceClosed, "strix: source closed"},
			{ErrBadFraming, "strix: malformed length framing"},
			{ErrConfigInvalid, "strix: invalid configuration"},
		}

		for _, tt := range tests {
			if tt.err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, tt.err.Error())
			}
		}
	})

	t.Run("ErrorDistinct", func(t *testing.T) {
		if errors.Is(ErrTruncatedBuffer, ErrUnrecognizedLength) {
			t.Error("decode sentinels must not match each other")
		}
	})
}
