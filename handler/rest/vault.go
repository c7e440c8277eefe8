package rest

import (
	"context"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
	"lendpool/service/pool"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
)

func vaultsHandler(p *pool.Pool, tokens core.TokenRegistry, pauser core.Pauser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		vaults := p.Vaults(ctx)
		vaultViews := make([]*views.Vault, 0, len(vaults))
		for _, v := range vaults {
			view, err := vaultView(ctx, p, tokens, pauser, v)
			if err != nil {
				render.Err(w, err)
				return
			}

			vaultViews = append(vaultViews, view)
		}

		render.JSON(w, vaultViews)
	}
}

func vaultHandler(p *pool.Pool, tokens core.TokenRegistry, pauser core.Pauser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		v, err := p.Vault(ctx, chi.URLParam(r, "token"))
		if err != nil {
			render.Err(w, err)
			return
		}

		view, err := vaultView(ctx, p, tokens, pauser, v)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func vaultView(ctx context.Context, p *pool.Pool, tokens core.TokenRegistry, pauser core.Pauser, v *core.Vault) (*views.Vault, error) {
	t, err := tokens.Find(ctx, v.Token)
	if err != nil {
		return nil, err
	}

	paused, err := isPaused(ctx, pauser, v.Token)
	if err != nil {
		return nil, err
	}

	rates, err := p.Rates(ctx, v.Token)
	if err != nil {
		return nil, err
	}

	// a vault stays listed while its feed is stale
	price, err := p.TokenPrice(ctx, v.Token)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Debugln("price of", v.Token)
		price = nil
	}

	return views.NewVault(v, t, paused, price, rates.Utilization, rates.BorrowRate, rates.SupplyRate), nil
}

func isPaused(ctx context.Context, pauser core.Pauser, token string) (bool, error) {
	for _, scope := range []string{core.GlobalScope, token} {
		paused, err := pauser.Paused(ctx, scope)
		if err != nil || paused {
			return paused, err
		}
	}

	return false, nil
}

func priceHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		price, err := p.TokenPrice(r.Context(), token)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{
			"token": token,
			"price": price,
		})
	}
}

func convertHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Side    string `json:"side" valid:"in(asset|borrow),required"`
			To      string `json:"to" valid:"in(shares|amount),required"`
			Value   string `json:"value" valid:"numeric,required"`
			RoundUp bool   `json:"round_up"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		value, err := parseAmount(params.Value)
		if err != nil {
			render.Err(w, err)
			return
		}

		ctx, token := r.Context(), chi.URLParam(r, "token")

		var result *uint256.Int
		switch params.Side + "/" + params.To {
		case "asset/shares":
			result, err = p.ToAssetShares(ctx, token, value, params.RoundUp)
		case "asset/amount":
			result, err = p.ToAssetAmount(ctx, token, value, params.RoundUp)
		case "borrow/shares":
			result, err = p.ToBorrowShares(ctx, token, value, params.RoundUp)
		default:
			result, err = p.ToBorrowAmount(ctx, token, value, params.RoundUp)
		}

		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{
			"token":  token,
			"side":   params.Side,
			"to":     params.To,
			"value":  value,
			"result": result,
		})
	}
}
