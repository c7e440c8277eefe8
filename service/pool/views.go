package pool

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"

	"github.com/holiman/uint256"
)

// Vault snapshot of the vault of token
func (p *Pool) Vault(ctx context.Context, token string) (*core.Vault, error) {
	var v *core.Vault
	err := p.read(ctx, func(ctx context.Context) error {
		var err error
		v, err = p.vault(token)
		return err
	})

	return v, err
}

// Vaults snapshots of every vault
func (p *Pool) Vaults(ctx context.Context) []*core.Vault {
	var vaults []*core.Vault
	_ = p.read(ctx, func(ctx context.Context) error {
		vaults = p.ledger.Vaults()
		return nil
	})

	return vaults
}

// Position raw shares of user in token, zero if none
func (p *Pool) Position(ctx context.Context, user, token string) *core.Position {
	var pos *core.Position
	_ = p.read(ctx, func(ctx context.Context) error {
		pos = p.ledger.Position(user, token)
		return nil
	})

	return pos
}

// Borrowers users holding debt in any vault
func (p *Pool) Borrowers(ctx context.Context) []string {
	var users []string
	_ = p.read(ctx, func(ctx context.Context) error {
		users = p.ledger.Borrowers()
		return nil
	})

	return users
}

// UserData USD value of the user's collateral and debt
func (p *Pool) UserData(ctx context.Context, user string) (*core.UserData, error) {
	var data *core.UserData
	err := p.read(ctx, func(ctx context.Context) error {
		var err error
		data, err = p.userData(ctx, user)
		return err
	})

	return data, err
}

// HealthFactor of user, compound.HealthFactorNoDebt without debt
func (p *Pool) HealthFactor(ctx context.Context, user string) (*uint256.Int, error) {
	var hf *uint256.Int
	err := p.read(ctx, func(ctx context.Context) error {
		var err error
		hf, err = p.healthFactor(ctx, user)
		return err
	})

	return hf, err
}

// ToAssetShares collateral shares worth amount of token
func (p *Pool) ToAssetShares(ctx context.Context, token string, amount *uint256.Int, roundUp bool) (*uint256.Int, error) {
	return p.convert(ctx, token, core.SideAsset, amount, roundUp, compound.ToShares)
}

// ToAssetAmount amount of token backing collateral shares
func (p *Pool) ToAssetAmount(ctx context.Context, token string, shares *uint256.Int, roundUp bool) (*uint256.Int, error) {
	return p.convert(ctx, token, core.SideAsset, shares, roundUp, compound.ToAmount)
}

// ToBorrowShares debt shares worth amount of token
func (p *Pool) ToBorrowShares(ctx context.Context, token string, amount *uint256.Int, roundUp bool) (*uint256.Int, error) {
	return p.convert(ctx, token, core.SideBorrow, amount, roundUp, compound.ToShares)
}

// ToBorrowAmount debt in token owed for shares
func (p *Pool) ToBorrowAmount(ctx context.Context, token string, shares *uint256.Int, roundUp bool) (*uint256.Int, error) {
	return p.convert(ctx, token, core.SideBorrow, shares, roundUp, compound.ToAmount)
}

type conversion func(total core.Balance, x *uint256.Int, roundUp bool) (*uint256.Int, error)

func (p *Pool) convert(ctx context.Context, token string, side core.Side, x *uint256.Int, roundUp bool, fn conversion) (*uint256.Int, error) {
	v, err := p.Vault(ctx, token)
	if err != nil {
		return nil, err
	}

	return fn(v.Balance(side), x, roundUp)
}

// TokenPrice USD price of token with 18 decimals
func (p *Pool) TokenPrice(ctx context.Context, token string) (*uint256.Int, error) {
	if _, err := p.tokens.Find(ctx, token); err != nil {
		return nil, err
	}

	return p.oracle.Price(ctx, token)
}

// USDValue USD value of amount base units of token, 18 decimals
func (p *Pool) USDValue(ctx context.Context, token string, amount *uint256.Int) (*uint256.Int, error) {
	t, err := p.tokens.Find(ctx, token)
	if err != nil {
		return nil, err
	}

	price, err := p.oracle.Price(ctx, token)
	if err != nil {
		return nil, err
	}

	return compound.USDValue(amount, price, t.Decimals)
}

// MaxLiquidatable debt of borrower in debtToken a liquidator may repay now,
// zero for healthy accounts
func (p *Pool) MaxLiquidatable(ctx context.Context, borrower, debtToken string) (*uint256.Int, error) {
	var limit *uint256.Int
	err := p.read(ctx, func(ctx context.Context) error {
		v, err := p.vault(debtToken)
		if err != nil {
			return err
		}

		hf, err := p.healthFactor(ctx, borrower)
		if err != nil {
			return err
		}

		if compound.IsHealthy(hf) {
			limit = new(uint256.Int)
			return nil
		}

		debt, err := compound.ToAmount(v.TotalBorrow, p.ledger.Position(borrower, debtToken).BorrowShares, true)
		if err != nil {
			return err
		}

		limit, err = compound.CloseFactorCap(hf, debt)
		return err
	})

	return limit, err
}

// Rates current annual rates of a vault, 1e18
type Rates struct {
	Token       string       `json:"token"`
	Utilization *uint256.Int `json:"utilization"`
	BorrowRate  uint64       `json:"borrow_rate"`
	SupplyRate  uint64       `json:"supply_rate"`
}

// Rates utilization and the annual borrow and supply rates of token
func (p *Pool) Rates(ctx context.Context, token string) (*Rates, error) {
	v, err := p.Vault(ctx, token)
	if err != nil {
		return nil, err
	}

	r := &Rates{Token: token}
	if r.Utilization, err = compound.UtilizationRate(v); err != nil {
		return nil, err
	}

	if r.BorrowRate, err = compound.BorrowRate(r.Utilization, v.RateInfo.RateParams); err != nil {
		return nil, err
	}

	if r.SupplyRate, err = compound.SupplyRate(v); err != nil {
		return nil, err
	}

	return r, nil
}
