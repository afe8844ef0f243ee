// Package money converts between major currency amounts and the integer minor units used by the payment gateway.
package money

import "math"

const minorUnitsPerMajor = 100

// ToMinor converts a major amount to minor units, rounding half away from zero.
func ToMinor(amount float64) int64 {
	return int64(math.Round(amount * minorUnitsPerMajor))
}

func FromMinor(amount int64) float64 {
	return float64(amount) / minorUnitsPerMajor
}

// Round2 rounds a major amount to two decimal places.
func Round2(amount float64) float64 {
	return FromMinor(ToMinor(amount))
}
