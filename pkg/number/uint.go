package number

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	// ErrOverflow result does not fit into 128 bits
	ErrOverflow = errors.New("number: overflow")
	// ErrUnderflow subtraction below zero
	ErrUnderflow = errors.New("number: underflow")
	// ErrDivisionByZero zero divisor
	ErrDivisionByZero = errors.New("number: division by zero")
)

// MaxUint128 largest value a ledger quantity may hold
var MaxUint128 = new(uint256.Int).Sub(
	new(uint256.Int).Lsh(uint256.NewInt(1), 128),
	uint256.NewInt(1),
)

// Zero new zero value
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// U wraps a uint64
func U(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// MustParse parses a base 10 string, panics on malformed input
func MustParse(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

// Parse parses a base 10 string bounded to 128 bits
func Parse(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, err
	}

	return v, Check128(v)
}

// Check128 reports ErrOverflow if x is wider than 128 bits
func Check128(x *uint256.Int) error {
	if x.BitLen() > 128 {
		return ErrOverflow
	}

	return nil
}

// Add x + y, bounded to 128 bits
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}

	return z, Check128(z)
}

// Sub x - y
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}

	return z, nil
}

// SubFloor x - y, or zero when y > x
func SubFloor(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return Zero()
	}

	return new(uint256.Int).Sub(x, y)
}

// Mul x * y, bounded to 256 bits
//
// intermediate products may be wider than a ledger quantity, callers
// narrow the final result with Check128
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}

	return z, nil
}

// MulDiv x * y / d with a 512 bit intermediate product.
// roundUp rounds any remainder away from zero.
func MulDiv(x, y, d *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}

	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}

	if roundUp && !new(uint256.Int).MulMod(x, y, d).IsZero() {
		if z, overflow = z.AddOverflow(z, uint256.NewInt(1)); overflow {
			return nil, ErrOverflow
		}
	}

	return z, nil
}

// Pow10 10^n
func Pow10(n uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// Min smaller of x and y
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x
	}

	return y
}
