package bps

import "errors"

var (
	// ErrMathOverflow indicates a checked operation exceeded the integer width
	// or went below zero.
	ErrMathOverflow = errors.New("bps: math overflow")

	// ErrInvalidBps indicates a basis-point value outside [0, 10000].
	ErrInvalidBps = errors.New("bps: basis points out of range")
)
