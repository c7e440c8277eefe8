package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/request"
	"lendpool/service/pool"
)

// SetupVaultRequest body of POST /admin/vaults
type SetupVaultRequest struct {
	Token    string          `json:"token" valid:"required"`
	Feed     string          `json:"feed"`
	Decimals uint8           `json:"decimals"`
	Params   core.RateParams `json:"params"`
	AddToken bool            `json:"add_token"`
}

func setupVaultHandler(p *pool.Pool, tokens core.TokenRegistry, pauser core.Pauser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.User(ctx)

		var req SetupVaultRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		token := &core.SupportedToken{
			Token:    req.Token,
			Feed:     req.Feed,
			Decimals: req.Decimals,
		}

		if err := p.SetupVault(ctx, user, token, req.Params, req.AddToken); err != nil {
			render.Err(w, err)
			return
		}

		v, err := p.Vault(ctx, req.Token)
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

// PauseRequest body of POST /admin/pause, an empty scope pauses the pool
type PauseRequest struct {
	Scope  string `json:"scope"`
	Paused bool   `json:"paused"`
}

func pauseHandler(p *pool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.User(ctx)

		var req PauseRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := p.SetPaused(ctx, user, req.Scope, req.Paused); err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, req)
	}
}
