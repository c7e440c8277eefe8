package compound

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// ToShares shares worth amount against total
//
// the first participant of a side receives shares 1:1
func ToShares(total core.Balance, amount *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if total.Shares.IsZero() {
		return amount.Clone(), nil
	}

	return checked(number.MulDiv(amount, total.Shares, total.Amount, roundUp))
}

// ToAmount amount backing shares against total
func ToAmount(total core.Balance, shares *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if total.Shares.IsZero() {
		return number.Zero(), nil
	}

	return checked(number.MulDiv(shares, total.Amount, total.Shares, roundUp))
}
