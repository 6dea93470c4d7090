package decoder

import (
	"errors"
	"testing"

	"firestige.xyz/strix/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		variant core.Variant
		err     error
	}{
		{"Empty", 0, 0, core.ErrTruncatedBuffer},
		{"BelowDescriptor", 11, 0, core.ErrTruncatedBuffer},
		{"ControlOnly", 12, core.VariantControlOnly, nil},
		{"Management", 60, core.VariantManagementSmall, nil},
		{"EmptyAggregate", 50, 0, core.ErrEmptyAggregate},
		{"DataTwoEntries", 70, core.VariantDataLarge, nil},
		{"DataThreeEntries", 80, core.VariantDataLarge, nil},
		{"DataManyEntries", 250, core.VariantDataLarge, nil},
		{"JustOverDescriptor", 13, 0, core.ErrUnrecognizedLength},
		{"BelowDataBase", 49, 0, core.ErrUnrecognizedLength},
		{"BetweenBaseAndManagement", 59, 0, core.ErrUnrecognizedLength},
		{"JustOverManagement", 61, 0, core.ErrUnrecognizedLength},
		{"OffTableStride", 75, 0, core.ErrUnrecognizedLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variant, err := Classify(make([]byte, tt.length))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("length %d: expected %v, got %v", tt.length, tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("length %d: unexpected error %v", tt.length, err)
			}
			if variant != tt.variant {
				t.Errorf("length %d: expected %v, got %v", tt.length, tt.variant, variant)
			}
		})
	}
}

// Every buffer length must classify or fail deterministically; no length
// may panic or fall through.
func TestClassifyTotal(t *testing.T) {
	for n := 0; n <= 512; n++ {
		variant, err := Classify(make([]byte, n))
		if err == nil {
			switch variant {
			case core.VariantControlOnly, core.VariantManagementSmall, core.VariantDataLarge:
			default:
				t.Fatalf("length %d: classified as unknown variant %v", n, variant)
			}
			continue
		}
		if !errors.Is(err, core.ErrTruncatedBuffer) &&
			!errors.Is(err, core.ErrUnrecognizedLength) &&
			!errors.Is(err, core.ErrEmptyAggregate) {
			t.Fatalf("length %d: unexpected error %v", n, err)
		}
	}
}

func TestDecodeMacHeaderOffsets(t *testing.T) {
	// Distinct byte values so any off-by-one shows up in the assembled fields.
	data := make([]byte, macHeaderLen)
	for i := range data {
		data[i] = byte(i)
	}

	h, err := decodeMacHeader(data)
	if err != nil {
		t.Fatalf("decodeMacHeader failed: %v", err)
	}

	if h.FrameControl != 0x0100 {
		t.Errorf("Expected FrameControl 0x0100, got 0x%04x", h.FrameControl)
	}
	if h.Duration != 0x0302 {
		t.Errorf("Expected Duration 0x0302, got 0x%04x", h.Duration)
	}
	if h.Address1 != [6]byte{0x04, 0x05, 0x06, 0x07, 0x08, 0x09} {
		t.Errorf("Address1 decoded from wrong offset: %v", h.Address1)
	}
	if h.Address2 != [6]byte{0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F} {
		t.Errorf("Address2 decoded from wrong offset: %v", h.Address2)
	}
	if h.Address3 != [6]byte{0x10, 0x11, 0x12, 0x13, 0x14, 0x15} {
		t.Errorf("Address3 decoded from wrong offset: %v", h.Address3)
	}
	if h.SequenceControl != 0x1716 {
		t.Errorf("Expected SequenceControl 0x1716, got 0x%04x", h.SequenceControl)
	}
	if h.Address4 != [6]byte{0x18, 0x19, 0x1A, 0x1B, 0x1C, 0x1D} {
		t.Errorf("Address4 decoded from wrong offset: %v", h.Address4)
	}
	if h.QoSControl != 0x1F1E {
		t.Errorf("Expected QoSControl 0x1F1E, got 0x%04x", h.QoSControl)
	}
	if h.HTControl != 0x23222120 {
		t.Errorf("Expected HTControl 0x23222120, got 0x%08x", h.HTControl)
	}
}

func TestDecodeMacHeaderTooShort(t *testing.T) {
	_, err := decodeMacHeader(make([]byte, macHeaderLen-1))
	if !errors.Is(err, core.ErrTruncatedBuffer) {
		t.Errorf("Expected ErrTruncatedBuffer, got %v", err)
	}
}

func TestDecodeDataCountMismatch(t *testing.T) {
	t.Run("EmbeddedCountTooHigh", func(t *testing.T) {
		record := makeDataRecord(2)
		record[48] = 5 // cnt says 5 entries, buffer holds 2

		var frame core.Frame
		err := decodeData(record, &frame, DefaultMaxSubFrames)
		if !errors.Is(err, core.ErrUnrecognizedLength) {
			t.Errorf("Expected ErrUnrecognizedLength, got %v", err)
		}
	})

	t.Run("EmbeddedCountTooLow", func(t *testing.T) {
		record := makeDataRecord(3)
		record[48] = 1

		var frame core.Frame
		err := decodeData(record, &frame, DefaultMaxSubFrames)
		if !errors.Is(err, core.ErrUnrecognizedLength) {
			t.Errorf("Expected ErrUnrecognizedLength, got %v", err)
		}
	})

	t.Run("EmbeddedCountZero", func(t *testing.T) {
		record := makeDataRecord(2)
		record[48] = 0
		record[49] = 0

		var frame core.Frame
		err := decodeData(record, &frame, DefaultMaxSubFrames)
		if !errors.Is(err, core.ErrEmptyAggregate) {
			t.Errorf("Expected ErrEmptyAggregate, got %v", err)
		}
	})
}

func TestDecodeDataEntryCap(t *testing.T) {
	record := makeDataRecord(3)

	var frame core.Frame
	err := decodeData(record, &frame, 2)
	if !errors.Is(err, core.ErrUnrecognizedLength) {
		t.Errorf("Expected ErrUnrecognizedLength over the entry cap, got %v", err)
	}

	if err := decodeData(record, &frame, 3); err != nil {
		t.Errorf("Expected success at the entry cap, got %v", err)
	}
}
