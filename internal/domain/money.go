package domain

import (
	"fmt"
	"math"
)

// DollarsToCents converts a decimal dollar amount, such as an order
// notional or a reference price, to int64 cents. Amounts with more than
// two decimal places are rejected: cash and prices are whole cents.
// Rounding after scaling absorbs float artifacts (38.10 * 100 is not
// exactly 3810 in float64).
func DollarsToCents(f float64) (int64, error) {
	// Scale by 1000 to expose a third decimal digit.
	scaled := math.Round(f * 1000)
	if math.Mod(scaled, 10) != 0 {
		return 0, fmt.Errorf("monetary values must have at most 2 decimal places")
	}

	return int64(math.Round(f * 100)), nil
}

// CentsToDollars converts int64 cents back to the decimal dollar amount
// used on the wire.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100.0
}
