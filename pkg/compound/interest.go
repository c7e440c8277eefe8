package compound

import (
	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/holiman/uint256"
)

// Accrual outcome of accruing one vault up to a tick
type Accrual struct {
	Token string `json:"token"`
	// Skipped nothing changes, the vault holds no assets or the step was already accrued
	Skipped bool `json:"skipped"`
	// Accrued interest was computed and the rate recomputed
	Accrued        bool         `json:"accrued"`
	ElapsedSteps   uint64       `json:"elapsed_steps"`
	ElapsedSeconds int64        `json:"elapsed_seconds"`
	BorrowRate     uint64       `json:"borrow_rate"`
	Interest       *uint256.Int `json:"interest"`
	Fee            *uint256.Int `json:"fee"`
	FeeShares      *uint256.Int `json:"fee_shares"`
	Step           uint64       `json:"step"`
	Time           int64        `json:"time"`
}

// Accrue computes the interest owed by v between its last accrual and tick.
// v is not modified, see Apply.
//
// Accrual runs at most once per step: a second call within the same step
// reports the stored rate and no interest. Without borrows, or while paused,
// the markers still move forward but nothing is earned.
func Accrue(v *core.Vault, tick core.Tick, paused bool) (*Accrual, error) {
	info := v.RateInfo
	a := &Accrual{
		Token:      v.Token,
		BorrowRate: info.BorrowRate,
		Interest:   number.Zero(),
		Fee:        number.Zero(),
		FeeShares:  number.Zero(),
		Step:       info.LastAccrualStep,
		Time:       info.LastAccrualTime,
	}

	if v.TotalAsset.Amount.IsZero() || tick.Step <= info.LastAccrualStep {
		a.Skipped = true
		return a, nil
	}

	a.ElapsedSteps = tick.Step - info.LastAccrualStep
	if now := tick.Time.Unix(); now > info.LastAccrualTime {
		a.ElapsedSeconds = now - info.LastAccrualTime
	}
	a.Step = tick.Step
	a.Time = tick.Time.Unix()

	if v.TotalBorrow.Amount.IsZero() || paused {
		return a, nil
	}

	u, err := UtilizationRate(v)
	if err != nil {
		return nil, err
	}

	if a.BorrowRate, err = BorrowRate(u, info.RateParams); err != nil {
		return nil, err
	}
	a.Accrued = true

	principal, err := number.Mul(uint256.NewInt(a.ElapsedSteps), v.TotalBorrow.Amount)
	if err != nil {
		return nil, wrap(err)
	}

	denominator := new(uint256.Int).Mul(precision, uint256.NewInt(StepsPerYear))
	if a.Interest, err = checked(number.MulDiv(principal, uint256.NewInt(a.BorrowRate), denominator, false)); err != nil {
		return nil, err
	}

	if a.Fee, err = checked(number.MulDiv(a.Interest, uint256.NewInt(info.FeeToProtocolRate), bps, false)); err != nil {
		return nil, err
	}

	assets, err := number.Add(v.TotalAsset.Amount, a.Interest)
	if err != nil {
		return nil, wrap(err)
	}

	// fee shares are priced against the post interest totals
	a.FeeShares, err = ToShares(core.Balance{Amount: assets, Shares: v.TotalAsset.Shares}, a.Fee, false)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Apply folds a into v. The protocol position crediting a.FeeShares is
// the caller's concern.
func Apply(v *core.Vault, a *Accrual) error {
	if a.Skipped {
		return nil
	}

	v.RateInfo.LastAccrualStep = a.Step
	v.RateInfo.LastAccrualTime = a.Time

	if !a.Accrued {
		return nil
	}

	borrows, err := number.Add(v.TotalBorrow.Amount, a.Interest)
	if err != nil {
		return wrap(err)
	}

	assets, err := number.Add(v.TotalAsset.Amount, a.Interest)
	if err != nil {
		return wrap(err)
	}

	shares, err := number.Add(v.TotalAsset.Shares, a.FeeShares)
	if err != nil {
		return wrap(err)
	}

	v.RateInfo.BorrowRate = a.BorrowRate
	v.TotalBorrow.Amount = borrows
	v.TotalAsset.Amount = assets
	v.TotalAsset.Shares = shares
	return nil
}
