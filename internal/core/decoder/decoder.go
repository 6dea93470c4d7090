// Package decoder implements promiscuous-mode capture record decoding.
package decoder

import "firestige.xyz/strix/internal/core"

// DefaultMaxSubFrames caps the length table size accepted from a data
// record. The radio aggregates far fewer sub-frames than this; a larger
// count means a corrupt or hostile length prefix.
const DefaultMaxSubFrames = 64

// Options configures a Decoder.
type Options struct {
	// Strict fails the decode on documented range violations instead of
	// leaving the check to the caller via ValidateMetadata.
	Strict bool

	// MaxSubFrames overrides DefaultMaxSubFrames when positive.
	MaxSubFrames int
}

// Decoder decodes raw capture records into frames.
type Decoder struct {
	opts Options
}

// New creates a Decoder.
func New(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode decodes one complete callback buffer. The input is never retained:
// every byte the returned frame references is an owned copy.
func (d *Decoder) Decode(raw core.RawRecord) (core.Frame, error) {
	meta, err := DecodeMetadata(raw.Data)
	if err != nil {
		return core.Frame{}, err
	}

	variant, err := Classify(raw.Data)
	if err != nil {
		return core.Frame{}, err
	}

	frame := core.Frame{
		Timestamp: raw.Timestamp,
		Source:    raw.Source,
		Metadata:  meta,
		Variant:   variant,
	}

	switch variant {
	case core.VariantControlOnly:
		// One overheard packet, even though the record carries no count.
		frame.PacketCount = 1
	case core.VariantManagementSmall:
		if err := decodeManagement(raw.Data, &frame); err != nil {
			return core.Frame{}, err
		}
	case core.VariantDataLarge:
		max := d.opts.MaxSubFrames
		if max <= 0 {
			max = DefaultMaxSubFrames
		}
		if err := decodeData(raw.Data, &frame, max); err != nil {
			return core.Frame{}, err
		}
	}

	frame.ResolvedLength = ResolveLength(meta, frame.ReportedLength, frame.HasReportedLength)

	if d.opts.Strict {
		if err := ValidateMetadata(meta); err != nil {
			return core.Frame{}, err
		}
	}

	return frame, nil
}
