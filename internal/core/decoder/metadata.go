// Package decoder implements promiscuous-mode capture record decoding.
package decoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/strix/internal/core"
)

// MetadataLen is the size of the receive descriptor leading every record.
const MetadataLen = 12

// mcsMax is the highest MCS index the radio reports (MCS 0-76).
const mcsMax = 76

// DecodeMetadata decodes the 12-byte receive descriptor. The hardware packs
// it as little-endian bitfields, equivalent to one LSB-first bit stream over
// the 12 bytes; fields are extracted in their declared order and reserved
// bits are discarded.
func DecodeMetadata(data []byte) (core.RadioMetadata, error) {
	if len(data) < MetadataLen {
		return core.RadioMetadata{}, core.ErrTruncatedBuffer
	}

	meta := core.RadioMetadata{}

	// rssi (8 bits, two's complement signed)
	meta.RSSI = int8(data[0])

	// rate (4) | is_group (1) | reserved (1) | sig_mode (2)
	meta.Rate = data[1] & 0x0F
	meta.IsGroup = data[1]&0x10 != 0
	meta.SigMode = (data[1] >> 6) & 0x03

	// legacy_length (12) | damatch0 (1) | damatch1 (1) | bssidmatch0 (1) | bssidmatch1 (1)
	w := binary.LittleEndian.Uint16(data[2:4])
	meta.LegacyLength = w & 0x0FFF
	meta.DAMatch0 = w&0x1000 != 0
	meta.DAMatch1 = w&0x2000 != 0
	meta.BSSIDMatch0 = w&0x4000 != 0
	meta.BSSIDMatch1 = w&0x8000 != 0

	// MCS (7) | CWB (1)
	meta.MCS = data[4] & 0x7F
	meta.CWB = data[4]&0x80 != 0

	// HT_length (16)
	meta.HTLength = binary.LittleEndian.Uint16(data[5:7])

	// Smoothing (1) | Not_Sounding (1) | reserved (1) | Aggregation (1) |
	// STBC (2) | FEC_CODING (1) | SGI (1)
	meta.Smoothing = data[7]&0x01 != 0
	meta.NotSounding = data[7]&0x02 != 0
	meta.Aggregation = data[7]&0x08 != 0
	meta.STBC = (data[7] >> 4) & 0x03
	meta.FECCoding = data[7]&0x40 != 0
	meta.SGI = data[7]&0x80 != 0

	// RxEnd_State (8) | Ampdu_Cnt (8)
	meta.RxEndState = data[8]
	meta.AMPDUCount = data[9]

	// channel (4) | reserved (12)
	meta.Channel = data[10] & 0x0F

	return meta, nil
}

// ValidateMetadata checks decoded fields against their documented ranges.
// Only the MCS index has a closed range (0-76 under 802.11n); sub-byte
// masking already bounds every other field.
func ValidateMetadata(meta core.RadioMetadata) error {
	if meta.IsHT() && meta.MCS > mcsMax {
		return fmt.Errorf("%w: mcs %d", core.ErrFieldOutOfRange, meta.MCS)
	}
	return nil
}
