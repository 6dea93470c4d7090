// Package core defines core types with zero external dependencies.
package core

import "fmt"

// RadioMetadata is the decoded form of the 12-byte receive descriptor the
// radio prepends to every promiscuous-mode record. Reserved bits are
// discarded during decoding.
type RadioMetadata struct {
	RSSI    int8  // Signal strength in dBm, sign-extended from the raw byte
	Rate    uint8 // Legacy rate index (4 bits)
	IsGroup bool  // Group-addressed (multicast/broadcast) frame
	SigMode uint8 // 0 = legacy 802.11a/b/g, otherwise 802.11n

	LegacyLength uint16 // Length estimate (12 bits), sig_mode == 0 only
	DAMatch0     bool   // Destination address matched interface 0
	DAMatch1     bool   // Destination address matched interface 1
	BSSIDMatch0  bool   // BSSID matched interface 0
	BSSIDMatch1  bool   // BSSID matched interface 1

	MCS      uint8  // Modulation and coding scheme index (7 bits), 802.11n only
	CWB      bool   // 40 MHz channel width
	HTLength uint16 // Length estimate, 802.11n only

	Smoothing   bool
	NotSounding bool
	Aggregation bool  // Record belongs to an A-MPDU
	STBC        uint8 // Space-time block coding (2 bits)
	FECCoding   bool  // LDPC coding when set
	SGI         bool  // Short guard interval

	RxEndState uint8 // Receiver end state reported by hardware
	AMPDUCount uint8 // Aggregate sub-frame counter
	Channel    uint8 // Primary channel number (4 bits)
}

// IsHT reports whether the record was received with 802.11n modulation.
func (m RadioMetadata) IsHT() bool { return m.SigMode != 0 }

// LikelySameTransmitter reports whether two observations plausibly come from
// the same device. Control-only records carry no addresses; the vendor
// documents rssi together with the FEC flag as the usable fingerprint.
func (m RadioMetadata) LikelySameTransmitter(other RadioMetadata, rssiTolerance uint8) bool {
	if m.FECCoding != other.FECCoding {
		return false
	}
	diff := int16(m.RSSI) - int16(other.RSSI)
	if diff < 0 {
		diff = -diff
	}
	return diff <= int16(rssiTolerance)
}

// MacHeader is the fixed 36-byte 802.11 MAC header shape carried by
// management records. Space for Address4, QoS control and HT control is
// always present on the wire even when the frame subtype does not use them.
type MacHeader struct {
	FrameControl    uint16
	Duration        uint16
	Address1        [6]byte // Receiver address
	Address2        [6]byte // Transmitter address
	Address3        [6]byte // BSSID for management frames
	SequenceControl uint16
	Address4        [6]byte // Meaningful only for WDS frames
	QoSControl      uint16
	HTControl       uint32
}

// ProtocolVersion returns bits 0-1 of the frame control field (always 0 on
// current hardware).
func (h MacHeader) ProtocolVersion() uint8 { return uint8(h.FrameControl & 0x0003) }

// Type returns the frame type bits: 0 management, 1 control, 2 data.
func (h MacHeader) Type() uint8 { return uint8((h.FrameControl >> 2) & 0x0003) }

// Subtype returns the 4-bit frame subtype.
func (h MacHeader) Subtype() uint8 { return uint8((h.FrameControl >> 4) & 0x000F) }

// ToDS reports the to-DS bit of the frame control field.
func (h MacHeader) ToDS() bool { return h.FrameControl&0x0100 != 0 }

// FromDS reports the from-DS bit of the frame control field.
func (h MacHeader) FromDS() bool { return h.FrameControl&0x0200 != 0 }

// Retry reports whether the frame is a retransmission.
func (h MacHeader) Retry() bool { return h.FrameControl&0x0800 != 0 }

// Protected reports whether the frame body is encrypted.
func (h MacHeader) Protected() bool { return h.FrameControl&0x4000 != 0 }

// SequenceNumber returns the 12-bit sequence counter from the sequence
// control field.
func (h MacHeader) SequenceNumber() uint16 { return h.SequenceControl >> 4 }

// FragmentNumber returns the 4-bit fragment index from the sequence control
// field.
func (h MacHeader) FragmentNumber() uint8 { return uint8(h.SequenceControl & 0x000F) }

// SubFrameLength is one 10-byte entry of the per-MPDU length table that
// closes an aggregate data record. The hardware reference manual gives the
// entry layout as length, sequence word, then the sub-frame's third address.
type SubFrameLength struct {
	Length   uint16
	Sequence uint16 // High 12 bits serial number, low 4 bits fragment number
	Address3 [6]byte
}

// SequenceNumber returns the 12-bit serial number of the sub-frame.
func (s SubFrameLength) SequenceNumber() uint16 { return s.Sequence >> 4 }

// FragmentNumber returns the 4-bit fragment index of the sub-frame.
func (s SubFrameLength) FragmentNumber() uint8 { return uint8(s.Sequence & 0x000F) }

// Variant identifies which of the three record layouts a capture buffer
// carries. The radio multiplexes all three onto one callback; total byte
// length is the only discriminator.
type Variant uint8

const (
	// VariantControlOnly is a bare 12-byte descriptor with no frame bytes.
	// The radio emits it for control frames and for noise it could not
	// decode further.
	VariantControlOnly Variant = iota
	// VariantManagementSmall is the fixed 60-byte management record:
	// descriptor, MAC header and a single-entry length tail.
	VariantManagementSmall
	// VariantDataLarge is the variable-length data record: descriptor, the
	// leading frame bytes and a per-MPDU length table.
	VariantDataLarge
)

func (v Variant) String() string {
	switch v {
	case VariantControlOnly:
		return "control-only"
	case VariantManagementSmall:
		return "management"
	case VariantDataLarge:
		return "data"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}
