// Package oracles carries the external price feed data the DLOB core
// needs for floating-limit pricing. Fetching it from a chain account is
// the caller's job; this package only models the data and converts
// between human-readable decimal prices and the scaled integers the
// core works in.
package oracles

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PricePrecision is the scale factor applied to all prices crossing the
// boundary, matching the teacher's PRICE_PRECISION convention.
var PricePrecision = big.NewInt(1_000_000)

// OraclePriceData is the oracle snapshot supplied by the caller on every
// pure read (spec.md §4.1, §6). Confidence and Twap are carried through
// for callers that want them; the core itself only reads Price.
type OraclePriceData struct {
	Price      *big.Int
	Slot       uint64
	Confidence *big.Int
	Twap       *big.Int
}

// FromDecimal converts a human price string such as "50000.25" into a
// scaled integer at PricePrecision, the same conversion the teacher
// applies to raw Pyth exponents before a price reaches the book.
func FromDecimal(price string) (*big.Int, error) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	scaled := d.Mul(decimal.NewFromBigInt(PricePrecision, 0))
	return scaled.BigInt(), nil
}

// ToDecimal is the inverse of FromDecimal, used for human-readable
// logging and CLI output.
func ToDecimal(scaledPrice *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(scaledPrice, 0).Div(decimal.NewFromBigInt(PricePrecision, 0))
}
