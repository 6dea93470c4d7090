// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawRecord is one promiscuous-mode callback buffer as delivered by a
// source, before decoding.
type RawRecord struct {
	Data      []byte    // Complete record: receive descriptor plus variant body
	Timestamp time.Time // Receive timestamp assigned by the source
	Source    string    // Listener address or file path the record came from
}

// Frame is the decoded form of one capture record. The decoder owns every
// byte in here; nothing aliases the source buffer.
type Frame struct {
	Timestamp time.Time
	Source    string
	Metadata  RadioMetadata
	Variant   Variant

	// FrameHead holds the leading 36 bytes of the over-the-air frame for
	// management and data records. Nil for control-only records.
	FrameHead []byte

	// Header is the parsed MAC header. Management records only.
	Header *MacHeader

	// SubFrames is the per-MPDU length table. Data records only.
	SubFrames []SubFrameLength

	PacketCount       uint16 // Packets in the record: 1 for control-only, the tail cnt field otherwise
	ReportedLength    uint16 // Explicit frame length from the record tail
	HasReportedLength bool   // False for control-only records
	ResolvedLength    uint16 // Authoritative length after precedence rules
	Sequence          uint16 // Sequence word of the first reported sub-frame
}

// SequenceNumber returns the 12-bit serial number of the reported packet.
// ok is false for control-only records, which carry no sequence word.
func (f *Frame) SequenceNumber() (uint16, bool) {
	if f.Variant == VariantControlOnly {
		return 0, false
	}
	return f.Sequence >> 4, true
}

// FragmentNumber returns the 4-bit fragment index of the reported packet.
// ok is false for control-only records.
func (f *Frame) FragmentNumber() (uint8, bool) {
	if f.Variant == VariantControlOnly {
		return 0, false
	}
	return uint8(f.Sequence & 0x000F), true
}
