package views

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Vault vault view, raw integers plus human readable figures
type Vault struct {
	*core.Vault
	Feed        string          `json:"feed"`
	Decimals    uint8           `json:"decimals"`
	Paused      bool            `json:"paused"`
	Price       decimal.Decimal `json:"price"`
	Supplied    decimal.Decimal `json:"supplied"`
	Borrowed    decimal.Decimal `json:"borrowed"`
	Utilization decimal.Decimal `json:"utilization"`
	BorrowAPR   decimal.Decimal `json:"borrow_apr"`
	SupplyAPR   decimal.Decimal `json:"supply_apr"`
}

// NewVault render v, price may be nil when the oracle has no fresh answer
func NewVault(v *core.Vault, t *core.SupportedToken, paused bool, price, utilization *uint256.Int, borrowRate, supplyRate uint64) *Vault {
	places := int32(t.Decimals)
	return &Vault{
		Vault:       v,
		Feed:        t.Feed,
		Decimals:    t.Decimals,
		Paused:      paused,
		Price:       number.ToDecimal(price, 18),
		Supplied:    number.ToDecimal(v.TotalAsset.Amount, places),
		Borrowed:    number.ToDecimal(v.TotalBorrow.Amount, places),
		Utilization: number.ToDecimal(utilization, 18),
		BorrowAPR:   number.ToDecimal(uint256.NewInt(borrowRate), 18),
		SupplyAPR:   number.ToDecimal(uint256.NewInt(supplyRate), 18),
	}
}
