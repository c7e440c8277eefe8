package pool

import (
	"context"
	"errors"

	"lendpool/core"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Liquidate repays up to amount of the borrower's debtToken debt on behalf
// of the liquidator, who receives the equivalent collateralToken plus a bonus.
//
// A borrower holding no collateral or no debt in the pair is left untouched
// and Liquidate returns nil, nil. Pauses do not block liquidation.
func (p *Pool) Liquidate(ctx context.Context, liquidator, borrower, collateralToken, debtToken string, amount *uint256.Int) (*core.Liquidated, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}

	if liquidator == borrower {
		return nil, core.NewError(core.ErrSelfLiquidation, "%s cannot liquidate itself", borrower)
	}

	var event *core.Liquidated
	err := p.atomic(ctx, "liquidate", func(ctx context.Context) error {
		collateral, err := p.tokens.Find(ctx, collateralToken)
		if err != nil {
			return err
		}

		debt, err := p.tokens.Find(ctx, debtToken)
		if err != nil {
			return err
		}

		if _, err := p.accrue(ctx, collateralToken); err != nil {
			return err
		}

		if debtToken != collateralToken {
			if _, err := p.accrue(ctx, debtToken); err != nil {
				return err
			}
		}

		hf, err := p.healthFactor(ctx, borrower)
		if err != nil {
			return err
		}

		if compound.IsHealthy(hf) {
			return core.NewError(core.ErrBorrowerSolvent, "%s is solvent with health factor %s", borrower, hf.Dec())
		}

		collateralShares := p.ledger.Position(borrower, collateralToken).CollateralShares
		borrowShares := p.ledger.Position(borrower, debtToken).BorrowShares
		if collateralShares.IsZero() || borrowShares.IsZero() {
			return errNoop
		}

		q, err := p.quote(ctx, hf, collateral, debt, collateralShares, borrowShares, amount)
		if err != nil {
			return err
		}

		event, err = p.seize(ctx, liquidator, borrower, collateralToken, debtToken, q, collateralShares, borrowShares)
		return err
	})

	if errors.Is(err, errNoop) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return event, nil
}

func (p *Pool) quote(
	ctx context.Context,
	hf *uint256.Int,
	collateral, debt *core.SupportedToken,
	collateralShares, borrowShares *uint256.Int,
	requested *uint256.Int,
) (*compound.LiquidationQuote, error) {
	cv, err := p.vault(collateral.Token)
	if err != nil {
		return nil, err
	}

	dv, err := p.vault(debt.Token)
	if err != nil {
		return nil, err
	}

	in := compound.LiquidationInput{
		HealthFactor:       hf,
		Requested:          requested,
		DebtDecimals:       debt.Decimals,
		CollateralDecimals: collateral.Decimals,
	}

	if in.Debt, err = compound.ToAmount(dv.TotalBorrow, borrowShares, true); err != nil {
		return nil, err
	}

	if in.Collateral, err = compound.ToAmount(cv.TotalAsset, collateralShares, false); err != nil {
		return nil, err
	}

	if in.DebtPrice, err = p.oracle.Price(ctx, debt.Token); err != nil {
		return nil, err
	}

	if in.CollateralPrice, err = p.oracle.Price(ctx, collateral.Token); err != nil {
		return nil, err
	}

	return compound.QuoteLiquidation(in)
}

// seize burns the repaid debt and the seized collateral, then settles both
// transfers with the liquidator
func (p *Pool) seize(
	ctx context.Context,
	liquidator, borrower, collateralToken, debtToken string,
	q *compound.LiquidationQuote,
	collateralShares, borrowShares *uint256.Int,
) (*core.Liquidated, error) {
	dv, err := p.vault(debtToken)
	if err != nil {
		return nil, err
	}

	debtShares, err := compound.ToShares(dv.TotalBorrow, q.Repay, false)
	if err != nil {
		return nil, err
	}

	debtShares = number.Min(debtShares, borrowShares).Clone()
	if debtShares.IsZero() {
		return nil, core.NewError(core.ErrAmountTooSmall, "repaying %s %s clears no debt shares", q.Repay.Dec(), debtToken)
	}

	repaid, err := p.ledger.Burn(core.SideBorrow, debtToken, borrower, q.Repay, debtShares)
	if err != nil {
		return nil, err
	}

	total, err := number.Add(q.Seize, q.Bonus)
	if err != nil {
		return nil, core.WrapError(core.ErrOverflow, err)
	}

	if total.IsZero() {
		return nil, core.NewError(core.ErrAmountTooSmall, "repaying %s %s seizes no %s", repaid.Dec(), debtToken, collateralToken)
	}

	// read after the debt burn, both sides may live in one vault
	cv, err := p.vault(collateralToken)
	if err != nil {
		return nil, err
	}

	seizedShares, err := compound.ToShares(cv.TotalAsset, total, true)
	if err != nil {
		return nil, err
	}
	seizedShares = number.Min(seizedShares, collateralShares).Clone()

	free := available(cv)
	seized, err := p.ledger.Burn(core.SideAsset, collateralToken, borrower, total, seizedShares)
	if err != nil {
		return nil, err
	}

	if free.Lt(seized) {
		return nil, core.NewError(core.ErrInsufficientLiquidity, "%s available %s, %s seized", collateralToken, free.Dec(), seized.Dec())
	}

	if err := p.transferIn(ctx, debtToken, liquidator, repaid); err != nil {
		return nil, err
	}

	if err := p.transferOut(ctx, collateralToken, liquidator, seized); err != nil {
		return nil, err
	}

	bonus := number.Min(q.Bonus, seized).Clone()
	event := &core.Liquidated{
		Liquidator:       liquidator,
		Borrower:         borrower,
		CollateralToken:  collateralToken,
		DebtToken:        debtToken,
		Repaid:           repaid,
		Seized:           new(uint256.Int).Sub(seized, bonus),
		Bonus:            bonus,
		DebtShares:       debtShares,
		CollateralShares: seizedShares,
	}

	p.emit(event)
	return event, nil
}
