package core

import (
	"github.com/holiman/uint256"
)

// Event names
const (
	EventDeposit            = "Deposit"
	EventWithdraw           = "Withdraw"
	EventBorrow             = "Borrow"
	EventRepay              = "Repay"
	EventLiquidated         = "Liquidated"
	EventAccruedInterest    = "AccruedInterest"
	EventUpdateInterestRate = "UpdateInterestRate"
	EventNewVaultSetup      = "NewVaultSetup"
	EventPauseUpdated       = "PauseUpdated"
)

// Event emitted by a committed operation
type Event interface {
	EventName() string
	EventToken() string
}

type (
	// Deposit collateral supplied
	Deposit struct {
		User   string       `json:"user"`
		Token  string       `json:"token"`
		Amount *uint256.Int `json:"amount"`
		Shares *uint256.Int `json:"shares"`
	}

	// Withdraw collateral withdrawn or redeemed
	Withdraw struct {
		User   string       `json:"user"`
		Token  string       `json:"token"`
		Amount *uint256.Int `json:"amount"`
		Shares *uint256.Int `json:"shares"`
	}

	// Borrow debt opened
	Borrow struct {
		User   string       `json:"user"`
		Token  string       `json:"token"`
		Amount *uint256.Int `json:"amount"`
		Shares *uint256.Int `json:"shares"`
	}

	// Repay debt repaid
	Repay struct {
		User   string       `json:"user"`
		Token  string       `json:"token"`
		Amount *uint256.Int `json:"amount"`
		Shares *uint256.Int `json:"shares"`
	}

	// Liquidated debt repaid by a third party against seized collateral
	Liquidated struct {
		Liquidator       string       `json:"liquidator"`
		Borrower         string       `json:"borrower"`
		CollateralToken  string       `json:"collateral_token"`
		DebtToken        string       `json:"debt_token"`
		Repaid           *uint256.Int `json:"repaid"`
		Seized           *uint256.Int `json:"seized"`
		Bonus            *uint256.Int `json:"bonus"`
		DebtShares       *uint256.Int `json:"debt_shares"`
		CollateralShares *uint256.Int `json:"collateral_shares"`
	}

	// AccruedInterest interest folded into a vault
	AccruedInterest struct {
		Token      string       `json:"token"`
		BorrowRate uint64       `json:"borrow_rate"`
		Interest   *uint256.Int `json:"interest"`
		Fee        *uint256.Int `json:"fee"`
		FeeShares  *uint256.Int `json:"fee_shares"`
	}

	// UpdateInterestRate rate recomputed by accrual
	UpdateInterestRate struct {
		Token          string `json:"token"`
		ElapsedSteps   uint64 `json:"elapsed_steps"`
		ElapsedSeconds int64  `json:"elapsed_seconds"`
		BorrowRate     uint64 `json:"borrow_rate"`
	}

	// NewVaultSetup vault created or reconfigured
	NewVaultSetup struct {
		Token    string     `json:"token"`
		Feed     string     `json:"feed"`
		Decimals uint8      `json:"decimals"`
		Params   RateParams `json:"params"`
		AddToken bool       `json:"add_token"`
	}

	// PauseUpdated pause flag flipped
	PauseUpdated struct {
		Scope  string `json:"scope"`
		Paused bool   `json:"paused"`
	}
)

func (e *Deposit) EventName() string  { return EventDeposit }
func (e *Deposit) EventToken() string { return e.Token }

func (e *Withdraw) EventName() string  { return EventWithdraw }
func (e *Withdraw) EventToken() string { return e.Token }

func (e *Borrow) EventName() string  { return EventBorrow }
func (e *Borrow) EventToken() string { return e.Token }

func (e *Repay) EventName() string  { return EventRepay }
func (e *Repay) EventToken() string { return e.Token }

func (e *Liquidated) EventName() string  { return EventLiquidated }
func (e *Liquidated) EventToken() string { return e.DebtToken }

func (e *AccruedInterest) EventName() string  { return EventAccruedInterest }
func (e *AccruedInterest) EventToken() string { return e.Token }

func (e *UpdateInterestRate) EventName() string  { return EventUpdateInterestRate }
func (e *UpdateInterestRate) EventToken() string { return e.Token }

func (e *NewVaultSetup) EventName() string  { return EventNewVaultSetup }
func (e *NewVaultSetup) EventToken() string { return e.Token }

func (e *PauseUpdated) EventName() string  { return EventPauseUpdated }
func (e *PauseUpdated) EventToken() string { return e.Scope }
