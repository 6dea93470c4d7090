// Package decoder implements promiscuous-mode capture record decoding.
package decoder

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const (
	// macHeaderLen is the fixed MAC header size inside management records,
	// also the number of leading frame bytes a data record carries.
	macHeaderLen = 36

	// managementRecordLen is the total size of a management record:
	// descriptor, MAC header, then the cnt, len, seq and addr3 tail.
	managementRecordLen = 60

	// dataRecordBaseLen is the size of a data record before its length
	// table: descriptor, 36 frame head bytes and the cnt field.
	dataRecordBaseLen = 50

	// subFrameEntryLen is the size of one length table entry.
	subFrameEntryLen = 10
)

// Classify determines the record variant from the total buffer length.
// Order matters: a 60-byte buffer also satisfies the data record equation
// with a one-entry table, and must be taken as management.
func Classify(data []byte) (core.Variant, error) {
	n := len(data)
	switch {
	case n < MetadataLen:
		return 0, core.ErrTruncatedBuffer
	case n == MetadataLen:
		return core.VariantControlOnly, nil
	case n == managementRecordLen:
		return core.VariantManagementSmall, nil
	case n == dataRecordBaseLen:
		// The only count the equation admits at this length is zero.
		return 0, core.ErrEmptyAggregate
	case n > dataRecordBaseLen && (n-dataRecordBaseLen)%subFrameEntryLen == 0:
		return core.VariantDataLarge, nil
	default:
		return 0, core.ErrUnrecognizedLength
	}
}

// decodeMacHeader decodes the fixed 36-byte header shape. All multi-byte
// fields are little-endian per IEEE 802.11.
func decodeMacHeader(data []byte) (core.MacHeader, error) {
	if len(data) < macHeaderLen {
		return core.MacHeader{}, core.ErrTruncatedBuffer
	}

	h := core.MacHeader{}

	// Frame control (2 bytes) and duration (2 bytes)
	h.FrameControl = binary.LittleEndian.Uint16(data[0:2])
	h.Duration = binary.LittleEndian.Uint16(data[2:4])

	// Address fields (6 bytes each)
	copy(h.Address1[:], data[4:10])
	copy(h.Address2[:], data[10:16])
	copy(h.Address3[:], data[16:22])

	// Sequence control (2 bytes)
	h.SequenceControl = binary.LittleEndian.Uint16(data[22:24])

	// Address4 slot (6 bytes), present on the wire for every subtype
	copy(h.Address4[:], data[24:30])

	// QoS control (2 bytes) and HT control (4 bytes)
	h.QoSControl = binary.LittleEndian.Uint16(data[30:32])
	h.HTControl = binary.LittleEndian.Uint32(data[32:36])

	return h, nil
}

// decodeManagement fills in the management-specific fields of frame from a
// complete 60-byte record buffer.
func decodeManagement(data []byte, frame *core.Frame) error {
	if len(data) != managementRecordLen {
		return core.ErrUnrecognizedLength
	}

	header, err := decodeMacHeader(data[MetadataLen : MetadataLen+macHeaderLen])
	if err != nil {
		return err
	}
	frame.Header = &header
	frame.FrameHead = append([]byte(nil), data[MetadataLen:MetadataLen+macHeaderLen]...)

	// cnt (2 bytes at offset 48), reported as 1 by the hardware
	frame.PacketCount = binary.LittleEndian.Uint16(data[48:50])

	// len (2 bytes at offset 50): explicit length of the received frame
	frame.ReportedLength = binary.LittleEndian.Uint16(data[50:52])
	frame.HasReportedLength = true

	// seq (2 bytes at offset 52): serial and fragment number word
	frame.Sequence = binary.LittleEndian.Uint16(data[52:54])

	// addr3 (6 bytes at offset 54) repeats the header's third address and
	// is not surfaced separately.

	return nil
}

// decodeData fills in the aggregate-specific fields of frame from a
// complete data record buffer. maxEntries bounds the length table.
func decodeData(data []byte, frame *core.Frame, maxEntries int) error {
	if len(data) < dataRecordBaseLen {
		return core.ErrTruncatedBuffer
	}

	// cnt (2 bytes at offset 48): number of length table entries
	cnt := binary.LittleEndian.Uint16(data[48:50])
	if cnt == 0 {
		return core.ErrEmptyAggregate
	}
	if int(cnt) > maxEntries {
		return core.ErrUnrecognizedLength
	}

	// The embedded count must close the record exactly.
	if len(data) != dataRecordBaseLen+int(cnt)*subFrameEntryLen {
		return core.ErrUnrecognizedLength
	}

	frame.FrameHead = append([]byte(nil), data[MetadataLen:MetadataLen+macHeaderLen]...)
	frame.PacketCount = cnt

	frame.SubFrames = make([]core.SubFrameLength, cnt)
	for i := range frame.SubFrames {
		off := dataRecordBaseLen + i*subFrameEntryLen
		entry := &frame.SubFrames[i]

		// Each entry: len (2 bytes), seq (2 bytes), addr3 (6 bytes)
		entry.Length = binary.LittleEndian.Uint16(data[off : off+2])
		entry.Sequence = binary.LittleEndian.Uint16(data[off+2 : off+4])
		copy(entry.Address3[:], data[off+4:off+10])
	}

	// The first entry describes the frame the head bytes belong to.
	frame.ReportedLength = frame.SubFrames[0].Length
	frame.HasReportedLength = true
	frame.Sequence = frame.SubFrames[0].Sequence

	return nil
}
