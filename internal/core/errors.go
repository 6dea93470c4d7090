// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors following ADR-021 error handling pattern.
var (
	// Record decoding errors
	ErrTruncatedBuffer    = errors.New("strix: buffer shorter than receive descriptor")
	ErrUnrecognizedLength = errors.New("strix: record length matches no known layout")
	ErrEmptyAggregate     = errors.New("strix: aggregate record with zero sub-frames")
	ErrFieldOutOfRange    = errors.New("strix: field value outside documented range")

	// Source errors
	ErrSourceClosed = errors.New("strix: source closed")
	ErrBadFraming   = errors.New("strix: malformed length framing")

	// Configuration errors
	ErrConfigInvalid = errors.New("strix: invalid configuration")
)
