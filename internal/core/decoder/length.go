// Package decoder implements promiscuous-mode capture record decoding.
package decoder

import "firestige.xyz/strix/internal/core"

// ResolveLength returns the authoritative frame length for a record. An
// explicit length from the record tail wins outright; the vendor documents
// it as more reliable than the modulation-derived estimates. Control-only
// records fall back to the estimate selected by sig_mode.
func ResolveLength(meta core.RadioMetadata, reported uint16, hasReported bool) uint16 {
	if hasReported {
		return reported
	}
	if meta.IsHT() {
		return meta.HTLength
	}
	return meta.LegacyLength
}
