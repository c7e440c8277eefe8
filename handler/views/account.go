package views

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Account account view
type Account struct {
	User          string          `json:"user"`
	CollateralUSD decimal.Decimal `json:"collateral_usd"`
	BorrowUSD     decimal.Decimal `json:"borrow_usd"`
	HealthFactor  decimal.Decimal `json:"health_factor"`
	Positions     []*Position     `json:"positions"`
}

// Position position view
type Position struct {
	*core.Position
	Collateral *uint256.Int `json:"collateral"`
	Debt       *uint256.Int `json:"debt"`
}

// NewAccount render data, positions carry the token amounts behind the shares
func NewAccount(data *core.UserData, positions []*Position) *Account {
	return &Account{
		User:          data.User,
		CollateralUSD: number.ToDecimal(data.CollateralUSD, 18),
		BorrowUSD:     number.ToDecimal(data.BorrowUSD, 18),
		HealthFactor:  number.ToDecimal(data.HealthFactor, 18),
		Positions:     positions,
	}
}
