package bps

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// NativeDecimals is the number of decimal places of the native value unit.
const NativeDecimals = 9

// FormatUnits renders an integer amount of base units with the given number
// of decimals, e.g. FormatUnits(2_525_000_000, 9) == "2.525".
func FormatUnits(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

// Percent renders a basis-point value as a percentage with two decimals,
// e.g. Percent(2500) == "25.00%".
func Percent(b uint16) string {
	return decimal.New(int64(b), -2).StringFixed(2) + "%"
}
