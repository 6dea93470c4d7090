package report

import (
	"net"
	"time"

	"github.com/google/gopacket/layers"

	"firestige.xyz/strix/internal/core"
)

// frameJSON is the wire shape shared by the jsonl reporter and the console
// reporter's json mode. Field order and names are part of the downstream
// contract, change them and every ingest pipeline notices.
type frameJSON struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source,omitempty"`
	Variant   string `json:"variant"`

	RSSI    int8  `json:"rssi_dbm"`
	Channel uint8 `json:"channel"`
	HT      bool  `json:"ht"`
	Rate    uint8 `json:"rate,omitempty"`
	MCS     uint8 `json:"mcs,omitempty"`

	Length uint16 `json:"length"`

	Type     *uint8 `json:"type,omitempty"`
	Subtype  *uint8 `json:"subtype,omitempty"`
	TypeName string `json:"type_name,omitempty"`

	Addr1 string `json:"addr1,omitempty"`
	Addr2 string `json:"addr2,omitempty"`
	Addr3 string `json:"addr3,omitempty"`

	Sequence *uint16 `json:"seq,omitempty"`
	Fragment *uint8  `json:"frag,omitempty"`
	Retry    bool    `json:"retry,omitempty"`

	SubFrames []subFrameJSON `json:"subframes,omitempty"`
}

type subFrameJSON struct {
	Length   uint16 `json:"length"`
	Sequence uint16 `json:"seq"`
	Fragment uint8  `json:"frag"`
	Addr3    string `json:"addr3"`
}

func newFrameJSON(f *core.Frame) frameJSON {
	out := frameJSON{
		Timestamp: f.Timestamp.Format(time.RFC3339Nano),
		Source:    f.Source,
		Variant:   f.Variant.String(),
		RSSI:      f.Metadata.RSSI,
		Channel:   f.Metadata.Channel,
		HT:        f.Metadata.IsHT(),
		Length:    f.ResolvedLength,
	}
	if f.Metadata.IsHT() {
		out.MCS = f.Metadata.MCS
	} else {
		out.Rate = f.Metadata.Rate
	}

	if f.Header != nil {
		h := f.Header
		typ, sub := h.Type(), h.Subtype()
		out.Type = &typ
		out.Subtype = &sub
		out.TypeName = dot11TypeName(typ, sub)
		out.Addr1 = macString(h.Address1)
		out.Addr2 = macString(h.Address2)
		out.Addr3 = macString(h.Address3)
		out.Retry = h.Retry()
	}

	if seq, ok := f.SequenceNumber(); ok {
		frag, _ := f.FragmentNumber()
		out.Sequence = &seq
		out.Fragment = &frag
	}

	for _, sf := range f.SubFrames {
		out.SubFrames = append(out.SubFrames, subFrameJSON{
			Length:   sf.Length,
			Sequence: sf.SequenceNumber(),
			Fragment: sf.FragmentNumber(),
			Addr3:    macString(sf.Address3),
		})
	}
	return out
}

func macString(addr [6]byte) string {
	return net.HardwareAddr(addr[:]).String()
}

// dot11TypeName renders the frame type the way gopacket names it. The
// Dot11Type value packs the main type in its low two bits and the subtype
// above them, mirroring the frame control byte shifted right by two.
func dot11TypeName(typ, subtype uint8) string {
	return layers.Dot11Type(typ | subtype<<2).String()
}
