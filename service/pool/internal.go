package pool

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

func (p *Pool) paused(ctx context.Context, token string) (bool, error) {
	for _, scope := range []string{core.GlobalScope, token} {
		paused, err := p.pauser.Paused(ctx, scope)
		if err != nil {
			return false, err
		}

		if paused {
			return true, nil
		}
	}

	return false, nil
}

// active token is supported and neither it nor the pool is paused
func (p *Pool) active(ctx context.Context, token string) (*core.SupportedToken, error) {
	t, err := p.tokens.Find(ctx, token)
	if err != nil {
		return nil, err
	}

	paused, err := p.paused(ctx, token)
	if err != nil {
		return nil, err
	}

	if paused {
		return nil, core.NewError(core.ErrPaused, "%s is paused", token)
	}

	return t, nil
}

func (p *Pool) vault(token string) (*core.Vault, error) {
	v, ok := p.ledger.Vault(token)
	if !ok {
		return nil, core.NewError(core.ErrTokenNotSupported, "no vault for %s", token)
	}

	return v, nil
}

// accrue brings the vault of token up to the current tick
func (p *Pool) accrue(ctx context.Context, token string) (*compound.Accrual, error) {
	v, err := p.vault(token)
	if err != nil {
		return nil, err
	}

	paused, err := p.paused(ctx, token)
	if err != nil {
		return nil, err
	}

	a, err := compound.Accrue(v, p.clock.Now(), paused)
	if err != nil {
		return nil, err
	}

	if err := p.ledger.ApplyAccrual(a, p.protocol); err != nil {
		return nil, err
	}

	if a.Accrued {
		p.emit(
			&core.AccruedInterest{
				Token:      token,
				BorrowRate: a.BorrowRate,
				Interest:   a.Interest,
				Fee:        a.Fee,
				FeeShares:  a.FeeShares,
			},
			&core.UpdateInterestRate{
				Token:          token,
				ElapsedSteps:   a.ElapsedSteps,
				ElapsedSeconds: a.ElapsedSeconds,
				BorrowRate:     a.BorrowRate,
			},
		)
	}

	return a, nil
}

// userData values every position of user in USD. Collateral rounds down
// and debt rounds up.
func (p *Pool) userData(ctx context.Context, user string) (*core.UserData, error) {
	data := &core.UserData{
		User:          user,
		CollateralUSD: number.Zero(),
		BorrowUSD:     number.Zero(),
		Positions:     p.ledger.Positions(user),
	}

	for _, pos := range data.Positions {
		if pos.IsEmpty() {
			continue
		}

		t, err := p.tokens.Find(ctx, pos.Token)
		if err != nil {
			return nil, err
		}

		v, err := p.vault(pos.Token)
		if err != nil {
			return nil, err
		}

		price, err := p.oracle.Price(ctx, pos.Token)
		if err != nil {
			return nil, err
		}

		collateral, err := p.value(v.TotalAsset, pos.CollateralShares, false, price, t.Decimals)
		if err != nil {
			return nil, err
		}

		debt, err := p.value(v.TotalBorrow, pos.BorrowShares, true, price, t.Decimals)
		if err != nil {
			return nil, err
		}

		if data.CollateralUSD, err = number.Add(data.CollateralUSD, collateral); err != nil {
			return nil, core.WrapError(core.ErrOverflow, err)
		}

		if data.BorrowUSD, err = number.Add(data.BorrowUSD, debt); err != nil {
			return nil, core.WrapError(core.ErrOverflow, err)
		}
	}

	hf, err := compound.HealthFactor(data.CollateralUSD, data.BorrowUSD)
	if err != nil {
		return nil, err
	}

	data.HealthFactor = hf
	return data, nil
}

func (p *Pool) value(total core.Balance, shares *uint256.Int, roundUp bool, price *uint256.Int, decimals uint8) (*uint256.Int, error) {
	if shares.IsZero() {
		return number.Zero(), nil
	}

	amount, err := compound.ToAmount(total, shares, roundUp)
	if err != nil {
		return nil, err
	}

	return compound.USDValue(amount, price, decimals)
}

// healthFactor of user, accounts without debt skip pricing
func (p *Pool) healthFactor(ctx context.Context, user string) (*uint256.Int, error) {
	indebted := false
	for _, pos := range p.ledger.Positions(user) {
		if !pos.BorrowShares.IsZero() {
			indebted = true
			break
		}
	}

	if !indebted {
		return compound.HealthFactorNoDebt.Clone(), nil
	}

	data, err := p.userData(ctx, user)
	if err != nil {
		return nil, err
	}

	return data.HealthFactor, nil
}

// requireHealthy fails when user ends below the minimum health factor
func (p *Pool) requireHealthy(ctx context.Context, user string) error {
	hf, err := p.healthFactor(ctx, user)
	if err != nil {
		return err
	}

	if !compound.IsHealthy(hf) {
		return core.NewError(core.ErrInsufficientCollaterals, "health factor of %s would drop to %s", user, hf.Dec())
	}

	return nil
}

// available assets not lent out
func available(v *core.Vault) *uint256.Int {
	return number.SubFloor(v.TotalAsset.Amount, v.TotalBorrow.Amount)
}

func (p *Pool) transferIn(ctx context.Context, token, from string, amount *uint256.Int) error {
	return transferError(p.bank.TransferIn(ctx, token, from, amount))
}

func (p *Pool) transferOut(ctx context.Context, token, to string, amount *uint256.Int) error {
	return transferError(p.bank.TransferOut(ctx, token, to, amount))
}

// transferError keeps pool errors raised by callbacks, anything else is a
// rejected transfer
func transferError(err error) error {
	if err == nil {
		return nil
	}

	if core.CodeOf(err) != core.ErrUnknown {
		return err
	}

	return core.WrapError(core.ErrTransferFailed, err)
}

func requirePositive(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return core.NewError(core.ErrInvalidAmount, "amount must be positive")
	}

	return nil
}
