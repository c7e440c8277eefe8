package core

import (
	"github.com/holiman/uint256"
)

// Balance amount and shares of one side of a vault
//
// Amount is zero if and only if Shares is zero.
type Balance struct {
	Amount *uint256.Int `json:"amount"`
	Shares *uint256.Int `json:"shares"`
}

// NewBalance empty balance
func NewBalance() Balance {
	return Balance{Amount: new(uint256.Int), Shares: new(uint256.Int)}
}

// Clone deep copy
func (b Balance) Clone() Balance {
	return Balance{Amount: b.Amount.Clone(), Shares: b.Shares.Clone()}
}

// IsZero no amount and no shares
func (b Balance) IsZero() bool {
	return b.Amount.IsZero() && b.Shares.IsZero()
}

// RateParams interest and reserve configuration of a vault.
// Ratios are in basis points of 1e5, rates and utilization in 1e18.
type RateParams struct {
	ReserveRatio       uint64 `json:"reserve_ratio"`
	FeeToProtocolRate  uint64 `json:"fee_to_protocol_rate"`
	FlashFeeRate       uint64 `json:"flash_fee_rate"`
	OptimalUtilization uint64 `json:"optimal_utilization"`
	BaseRate           uint64 `json:"base_rate"`
	Slope1             uint64 `json:"slope1"`
	Slope2             uint64 `json:"slope2"`
}

// RateInfo rate parameters plus the accrual markers
type RateInfo struct {
	RateParams
	// annualized borrow rate applied by the last accrual, 1e18
	BorrowRate      uint64 `json:"borrow_rate"`
	LastAccrualStep uint64 `json:"last_accrual_step"`
	LastAccrualTime int64  `json:"last_accrual_time"`
}

// Vault per token pool state
type Vault struct {
	Token       string   `json:"token"`
	TotalAsset  Balance  `json:"total_asset"`
	TotalBorrow Balance  `json:"total_borrow"`
	RateInfo    RateInfo `json:"rate_info"`
}

// NewVault empty vault with markers set to tick
func NewVault(token string, params RateParams, tick Tick) *Vault {
	return &Vault{
		Token:       token,
		TotalAsset:  NewBalance(),
		TotalBorrow: NewBalance(),
		RateInfo: RateInfo{
			RateParams:      params,
			LastAccrualStep: tick.Step,
			LastAccrualTime: tick.Time.Unix(),
		},
	}
}

// Clone deep copy
func (v *Vault) Clone() *Vault {
	c := *v
	c.TotalAsset = v.TotalAsset.Clone()
	c.TotalBorrow = v.TotalBorrow.Clone()
	return &c
}

// Side selects the asset or the borrow balance of a vault
type Side int

const (
	// SideAsset supplied collateral
	SideAsset Side = iota
	// SideBorrow outstanding debt
	SideBorrow
)

func (s Side) String() string {
	if s == SideBorrow {
		return "borrow"
	}

	return "asset"
}

// Balance balance on side s
func (v *Vault) Balance(s Side) Balance {
	if s == SideBorrow {
		return v.TotalBorrow
	}

	return v.TotalAsset
}
