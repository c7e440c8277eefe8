package number

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// FromDecimal scales d by 10^places and truncates it into an unsigned integer.
// Negative values and results wider than 128 bits are rejected.
func FromDecimal(d decimal.Decimal, places int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, ErrUnderflow
	}

	v, overflow := uint256.FromBig(d.Shift(places).Truncate(0).BigInt())
	if overflow {
		return nil, ErrOverflow
	}

	return v, Check128(v)
}

// ToDecimal reads x as a fixed point number with the given places
func ToDecimal(x *uint256.Int, places int32) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(x.ToBig(), -places)
}
