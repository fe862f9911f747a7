// Package bps implements the basis-point fixed-point arithmetic used for
// custody fees, contribution splits, voting weight and reward entitlement.
//
// Every function is pure and overflow-checked. Division always floors; the
// remainder of a proportional split is never redistributed, so a holder may be
// under-allocated by at most one unit.
package bps

import (
	"fmt"
	"math/bits"
)

const (
	// Denominator is the number of basis points in a whole (100%).
	Denominator = 10000

	// Max is the largest valid share of a single listing.
	Max uint16 = Denominator

	// Majority is the yes-weight a proposal must strictly exceed to be approved.
	Majority uint16 = 5000
)

// Valid reports whether b lies within [0, Max].
func Valid(b uint16) bool {
	return b <= Max
}

// Share returns floor(total * b / 10000).
func Share(total uint64, b uint16) (uint64, error) {
	if !Valid(b) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBps, b)
	}
	product, err := Mul(total, uint64(b))
	if err != nil {
		return 0, err
	}
	return product / Denominator, nil
}

// Mul returns a*b or ErrMathOverflow when the product does not fit in 64 bits.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrMathOverflow, a, b)
	}
	return lo, nil
}

// Add returns a+b or ErrMathOverflow on wrap-around.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrMathOverflow, a, b)
	}
	return sum, nil
}

// Sub returns a-b or ErrMathOverflow when b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", ErrMathOverflow, a, b)
	}
	return diff, nil
}

// AddBps adds two 16-bit basis-point counters. It fails on u16 wrap-around
// only; callers enforce the 10000 ceiling themselves.
func AddBps(a, b uint16) (uint16, error) {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		return 0, fmt.Errorf("%w: %d + %d", ErrMathOverflow, a, b)
	}
	return uint16(sum), nil
}

// Remaining returns Max - sold.
func Remaining(sold uint16) (uint16, error) {
	if sold > Max {
		return 0, fmt.Errorf("%w: %d - %d", ErrMathOverflow, Max, sold)
	}
	return Max - sold, nil
}

// AddInt64 adds two signed timestamps/offsets with overflow checking.
func AddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %d + %d", ErrMathOverflow, a, b)
	}
	return sum, nil
}
