package core

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind groups error codes by the way a caller should react to them
type ErrorKind string

const (
	KindUnknown    ErrorKind = "unknown"
	KindValidation ErrorKind = "validation"
	KindSlippage   ErrorKind = "slippage"
	KindSolvency   ErrorKind = "solvency"
	KindLiquidity  ErrorKind = "liquidity"
	KindSelfAction ErrorKind = "self_action"
	KindOracle     ErrorKind = "oracle"
	KindState      ErrorKind = "state"
	KindPermission ErrorKind = "permission"
	KindOverflow   ErrorKind = "overflow"
)

func (k ErrorKind) Error() string {
	return string(k)
}

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden caller is not privileged
	ErrOperationForbidden ErrorCode = 100001

	// ErrTokenNotSupported no vault for the token
	ErrTokenNotSupported ErrorCode = 100100
	// ErrInvalidAmount zero or malformed amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrNoDebt nothing to repay
	ErrNoDebt ErrorCode = 100103
	// ErrInsufficientCollaterals health factor below minimum
	ErrInsufficientCollaterals ErrorCode = 100104
	// ErrInsufficientLiquidity pool lacks available balance
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrInsufficientShares caller holds fewer shares than requested
	ErrInsufficientShares ErrorCode = 100106
	// ErrBorrowerSolvent liquidation of a healthy account
	ErrBorrowerSolvent ErrorCode = 100107
	// ErrInvalidPrice non positive price
	ErrInvalidPrice ErrorCode = 100108
	// ErrStalePrice price older than the staleness window
	ErrStalePrice ErrorCode = 100109
	// ErrSlippage result outside the caller's bound
	ErrSlippage ErrorCode = 100110
	// ErrPaused global or token pause active
	ErrPaused ErrorCode = 100111
	// ErrTokenExists vault already set up
	ErrTokenExists ErrorCode = 100112
	// ErrNotPaused reconfiguration requires a paused vault
	ErrNotPaused ErrorCode = 100113
	// ErrInvalidParams rate parameters out of range
	ErrInvalidParams ErrorCode = 100114
	// ErrSelfLiquidation liquidator equals borrower
	ErrSelfLiquidation ErrorCode = 100115
	// ErrAmountTooSmall amount converts to zero shares
	ErrAmountTooSmall ErrorCode = 100116
	// ErrOverflow arithmetic overflow
	ErrOverflow ErrorCode = 100117
	// ErrTransferFailed the transfer primitive rejected a move
	ErrTransferFailed ErrorCode = 100118
)

var errorKinds = map[ErrorCode]ErrorKind{
	ErrOperationForbidden:      KindPermission,
	ErrTokenNotSupported:       KindState,
	ErrInvalidAmount:           KindValidation,
	ErrNoDebt:                  KindState,
	ErrInsufficientCollaterals: KindSolvency,
	ErrInsufficientLiquidity:   KindLiquidity,
	ErrInsufficientShares:      KindLiquidity,
	ErrBorrowerSolvent:         KindSolvency,
	ErrInvalidPrice:            KindOracle,
	ErrStalePrice:              KindOracle,
	ErrSlippage:                KindSlippage,
	ErrPaused:                  KindState,
	ErrTokenExists:             KindState,
	ErrNotPaused:               KindState,
	ErrInvalidParams:           KindValidation,
	ErrSelfLiquidation:         KindSelfAction,
	ErrAmountTooSmall:          KindValidation,
	ErrOverflow:                KindOverflow,
	ErrTransferFailed:          KindState,
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Kind error kind of the code
func (e ErrorCode) Kind() ErrorKind {
	if k, ok := errorKinds[e]; ok {
		return k
	}

	return KindUnknown
}

// Error pool error with a code and a readable message
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

// NewError new error with code
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// WrapError attach a code to err
func WrapError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Msg: err.Error(), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.Kind(), e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches both the exact code and its kind
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return t == e.Code
	case ErrorKind:
		return t == e.Code.Kind()
	}

	return false
}

// CodeOf extract error code, ErrUnknown if err carries none
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrUnknown
}

// KindOf extract error kind
func KindOf(err error) ErrorKind {
	return CodeOf(err).Kind()
}
