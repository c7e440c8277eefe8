package rest

import (
	"context"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/request"
	"lendpool/pkg/compound"
	"lendpool/pkg/number"
	"lendpool/service/pool"

	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
)

// ActionRequest body of POST /actions/{action}
type ActionRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
	// Limit min shares out of supply, max shares in of withdraw and
	// min amount out of redeem
	Limit           string `json:"limit"`
	Borrower        string `json:"borrower"`
	CollateralToken string `json:"collateral_token"`
	DebtToken       string `json:"debt_token"`
}

type action func(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error)

var actions = map[string]action{
	"supply":    supply,
	"borrow":    borrow,
	"repay":     repay,
	"withdraw":  withdraw,
	"redeem":    redeem,
	"liquidate": liquidate,
	"accrue":    accrue,
}

func actionHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.User(ctx)

		fn, ok := actions[chi.URLParam(r, "action")]
		if !ok {
			render.NotFoundRequest(w, core.NewError(core.ErrInvalidParams, "unknown action %s", chi.URLParam(r, "action")))
			return
		}

		var req ActionRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		result, err := fn(ctx, p, user, &req)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"event": result})
	}
}

func supply(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error) {
	amount, limit, err := amountAndLimit(req)
	if err != nil {
		return nil, err
	}

	return p.Supply(ctx, user, req.Token, amount, limit)
}

func borrow(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	return p.Borrow(ctx, user, req.Token, amount)
}

func repay(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error) {
	amount := compound.RepayAll
	if req.Amount != "all" {
		var err error
		if amount, err = parseAmount(req.Amount); err != nil {
			return nil, err
		}
	}

	return p.Repay(ctx, user, req.Token, amount)
}

func withdraw(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error) {
	amount, limit, err := amountAndLimit(req)
	if err != nil {
		return nil, err
	}

	return p.Withdraw(ctx, user, req.Token, amount, limit)
}

func redeem(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error) {
	shares, limit, err := amountAndLimit(req)
	if err != nil {
		return nil, err
	}

	return p.Redeem(ctx, user, req.Token, shares, limit)
}

func liquidate(ctx context.Context, p *pool.Pool, user string, req *ActionRequest) (interface{}, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	return p.Liquidate(ctx, user, req.Borrower, req.CollateralToken, req.DebtToken, amount)
}

func accrue(ctx context.Context, p *pool.Pool, _ string, req *ActionRequest) (interface{}, error) {
	return p.AccrueInterest(ctx, req.Token)
}

func amountAndLimit(req *ActionRequest) (amount, limit *uint256.Int, err error) {
	if amount, err = parseAmount(req.Amount); err != nil {
		return nil, nil, err
	}

	if req.Limit != "" {
		if limit, err = parseAmount(req.Limit); err != nil {
			return nil, nil, err
		}
	}

	return amount, limit, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := number.Parse(s)
	if err != nil {
		return nil, core.NewError(core.ErrInvalidAmount, "invalid amount %q", s)
	}

	return v, nil
}
