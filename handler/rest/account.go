package rest

import (
	"net/http"

	"lendpool/handler/render"
	"lendpool/handler/views"
	"lendpool/service/pool"

	"github.com/go-chi/chi"
)

func accountHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		data, err := p.UserData(ctx, chi.URLParam(r, "user"))
		if err != nil {
			render.Err(w, err)
			return
		}

		positions := make([]*views.Position, 0, len(data.Positions))
		for _, pos := range data.Positions {
			view := &views.Position{Position: pos}
			if view.Collateral, err = p.ToAssetAmount(ctx, pos.Token, pos.CollateralShares, false); err != nil {
				render.Err(w, err)
				return
			}

			if view.Debt, err = p.ToBorrowAmount(ctx, pos.Token, pos.BorrowShares, true); err != nil {
				render.Err(w, err)
				return
			}

			positions = append(positions, view)
		}

		render.JSON(w, views.NewAccount(data, positions))
	}
}

func positionHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, token := r.Context(), chi.URLParam(r, "token")

		if _, err := p.Vault(ctx, token); err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, p.Position(ctx, chi.URLParam(r, "user"), token))
	}
}

func liquidatableHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, token := chi.URLParam(r, "user"), chi.URLParam(r, "token")

		amount, err := p.MaxLiquidatable(r.Context(), user, token)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{
			"user":   user,
			"token":  token,
			"amount": amount,
		})
	}
}
