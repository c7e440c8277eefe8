package core

import (
	"github.com/holiman/uint256"
)

// Position shares a user holds in one vault
type Position struct {
	User             string       `json:"user"`
	Token            string       `json:"token"`
	CollateralShares *uint256.Int `json:"collateral_shares"`
	BorrowShares     *uint256.Int `json:"borrow_shares"`
}

// NewPosition empty position
func NewPosition(user, token string) *Position {
	return &Position{
		User:             user,
		Token:            token,
		CollateralShares: new(uint256.Int),
		BorrowShares:     new(uint256.Int),
	}
}

// Clone deep copy
func (p *Position) Clone() *Position {
	c := *p
	c.CollateralShares = p.CollateralShares.Clone()
	c.BorrowShares = p.BorrowShares.Clone()
	return &c
}

// IsEmpty neither collateral nor debt
func (p *Position) IsEmpty() bool {
	return p.CollateralShares.IsZero() && p.BorrowShares.IsZero()
}

// Shares shares on side s
func (p *Position) Shares(s Side) *uint256.Int {
	if s == SideBorrow {
		return p.BorrowShares
	}

	return p.CollateralShares
}

// UserData aggregate USD view of one account, 18 decimals
type UserData struct {
	User          string       `json:"user"`
	CollateralUSD *uint256.Int `json:"collateral_usd"`
	BorrowUSD     *uint256.Int `json:"borrow_usd"`
	HealthFactor  *uint256.Int `json:"health_factor"`
	Positions     []*Position  `json:"positions"`
}
