package pool

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Supply deposits amount of token as collateral and returns the shares minted
func (p *Pool) Supply(ctx context.Context, user, token string, amount, minSharesOut *uint256.Int) (*core.Deposit, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	var event *core.Deposit
	err := p.atomic(ctx, "supply", func(ctx context.Context) error {
		if _, err := p.active(ctx, token); err != nil {
			return err
		}

		if _, err := p.accrue(ctx, token); err != nil {
			return err
		}

		v, err := p.vault(token)
		if err != nil {
			return err
		}

		shares, err := compound.ToShares(v.TotalAsset, amount, false)
		if err != nil {
			return err
		}

		if shares.IsZero() {
			return core.NewError(core.ErrAmountTooSmall, "%s %s is worth no shares", amount.Dec(), token)
		}

		if minSharesOut != nil && shares.Lt(minSharesOut) {
			return core.NewError(core.ErrSlippage, "supply mints %s shares, at least %s expected", shares.Dec(), minSharesOut.Dec())
		}

		if err := p.ledger.Mint(core.SideAsset, token, user, amount, shares); err != nil {
			return err
		}

		if err := p.transferIn(ctx, token, user, amount); err != nil {
			return err
		}

		event = &core.Deposit{User: user, Token: token, Amount: amount.Clone(), Shares: shares}
		p.emit(event)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return event, nil
}

// Borrow lends amount of token to user against the user's collateral
func (p *Pool) Borrow(ctx context.Context, user, token string, amount *uint256.Int) (*core.Borrow, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	var event *core.Borrow
	err := p.atomic(ctx, "borrow", func(ctx context.Context) error {
		if _, err := p.active(ctx, token); err != nil {
			return err
		}

		if _, err := p.accrue(ctx, token); err != nil {
			return err
		}

		v, err := p.vault(token)
		if err != nil {
			return err
		}

		reserve, err := number.MulDiv(v.TotalAsset.Amount, uint256.NewInt(v.RateInfo.ReserveRatio), uint256.NewInt(compound.BPS), false)
		if err != nil {
			return core.WrapError(core.ErrOverflow, err)
		}

		need, err := number.Add(amount, reserve)
		if err != nil {
			return core.WrapError(core.ErrOverflow, err)
		}

		if free := available(v); free.Lt(need) {
			return core.NewError(core.ErrInsufficientLiquidity, "%s available %s, %s plus reserve %s requested",
				token, free.Dec(), amount.Dec(), reserve.Dec())
		}

		// debt shares round up, the borrower owes at least what was taken
		shares, err := compound.ToShares(v.TotalBorrow, amount, true)
		if err != nil {
			return err
		}

		if err := p.ledger.Mint(core.SideBorrow, token, user, amount, shares); err != nil {
			return err
		}

		if err := p.transferOut(ctx, token, user, amount); err != nil {
			return err
		}

		if err := p.requireHealthy(ctx, user); err != nil {
			return err
		}

		event = &core.Borrow{User: user, Token: token, Amount: amount.Clone(), Shares: shares}
		p.emit(event)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return event, nil
}

// Repay pays back debt of user in token. compound.RepayAll, or any amount
// above the debt, repays the whole debt.
func (p *Pool) Repay(ctx context.Context, user, token string, amount *uint256.Int) (*core.Repay, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	var event *core.Repay
	err := p.atomic(ctx, "repay", func(ctx context.Context) error {
		if _, err := p.active(ctx, token); err != nil {
			return err
		}

		if _, err := p.accrue(ctx, token); err != nil {
			return err
		}

		v, err := p.vault(token)
		if err != nil {
			return err
		}

		owned := p.ledger.Position(user, token).BorrowShares
		if owned.IsZero() {
			return core.NewError(core.ErrNoDebt, "%s has no %s debt", user, token)
		}

		debt, err := compound.ToAmount(v.TotalBorrow, owned, true)
		if err != nil {
			return err
		}

		shares, pay := owned.Clone(), debt
		if amount.Lt(debt) {
			if shares, err = compound.ToShares(v.TotalBorrow, amount, false); err != nil {
				return err
			}
			pay = amount.Clone()
		}

		if shares.IsZero() {
			return core.NewError(core.ErrAmountTooSmall, "%s %s clears no debt shares", amount.Dec(), token)
		}

		repaid, err := p.ledger.Burn(core.SideBorrow, token, user, pay, shares)
		if err != nil {
			return err
		}

		if err := p.transferIn(ctx, token, user, repaid); err != nil {
			return err
		}

		event = &core.Repay{User: user, Token: token, Amount: repaid, Shares: shares}
		p.emit(event)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return event, nil
}

// Withdraw takes amount of token out of the user's collateral, burning at
// most maxSharesIn shares
func (p *Pool) Withdraw(ctx context.Context, user, token string, amount, maxSharesIn *uint256.Int) (*core.Withdraw, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	return p.withdraw(ctx, "withdraw", user, token, func(v *core.Vault) (*uint256.Int, *uint256.Int, error) {
		shares, err := compound.ToShares(v.TotalAsset, amount, true)
		if err != nil {
			return nil, nil, err
		}

		if maxSharesIn != nil && shares.Gt(maxSharesIn) {
			return nil, nil, core.NewError(core.ErrSlippage, "withdraw burns %s shares, at most %s allowed", shares.Dec(), maxSharesIn.Dec())
		}

		return amount.Clone(), shares, nil
	})
}

// Redeem burns shares of the user's collateral for at least minAmountOut
func (p *Pool) Redeem(ctx context.Context, user, token string, shares, minAmountOut *uint256.Int) (*core.Withdraw, error) {
	if err := requirePositive(shares); err != nil {
		return nil, err
	}

	return p.withdraw(ctx, "redeem", user, token, func(v *core.Vault) (*uint256.Int, *uint256.Int, error) {
		amount, err := compound.ToAmount(v.TotalAsset, shares, false)
		if err != nil {
			return nil, nil, err
		}

		if amount.IsZero() {
			return nil, nil, core.NewError(core.ErrAmountTooSmall, "%s %s shares are worth nothing", shares.Dec(), token)
		}

		if minAmountOut != nil && amount.Lt(minAmountOut) {
			return nil, nil, core.NewError(core.ErrSlippage, "redeem pays %s, at least %s expected", amount.Dec(), minAmountOut.Dec())
		}

		return amount, shares.Clone(), nil
	})
}

// quote converts the caller's request against the accrued vault into the
// amount paid out and the shares burned
type quote func(v *core.Vault) (amount, shares *uint256.Int, err error)

func (p *Pool) withdraw(ctx context.Context, op, user, token string, q quote) (*core.Withdraw, error) {
	var event *core.Withdraw
	err := p.atomic(ctx, op, func(ctx context.Context) error {
		if _, err := p.active(ctx, token); err != nil {
			return err
		}

		if _, err := p.accrue(ctx, token); err != nil {
			return err
		}

		v, err := p.vault(token)
		if err != nil {
			return err
		}

		amount, shares, err := q(v)
		if err != nil {
			return err
		}

		if held := p.ledger.Position(user, token).CollateralShares; held.Lt(shares) {
			return core.NewError(core.ErrInsufficientShares, "%s holds %s %s shares, %s needed", user, held.Dec(), token, shares.Dec())
		}

		free := available(v)
		if free.Lt(amount) {
			return core.NewError(core.ErrInsufficientLiquidity, "%s available %s, %s requested", token, free.Dec(), amount.Dec())
		}

		paid, err := p.ledger.Burn(core.SideAsset, token, user, amount, shares)
		if err != nil {
			return err
		}

		// burning the last shares sweeps the whole side
		if free.Lt(paid) {
			return core.NewError(core.ErrInsufficientLiquidity, "%s available %s, %s requested", token, free.Dec(), paid.Dec())
		}

		if err := p.transferOut(ctx, token, user, paid); err != nil {
			return err
		}

		if err := p.requireHealthy(ctx, user); err != nil {
			return err
		}

		event = &core.Withdraw{User: user, Token: token, Amount: paid, Shares: shares}
		p.emit(event)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return event, nil
}
