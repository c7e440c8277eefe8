package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/auth"
	"lendpool/handler/render"
	"lendpool/service/pool"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(p *pool.Pool, tokens core.TokenRegistry, pauser core.Pauser, events core.EventStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/vaults", vaultsHandler(p, tokens, pauser))
	router.Get("/vaults/{token}", vaultHandler(p, tokens, pauser))
	router.Get("/prices/{token}", priceHandler(p))
	router.Get("/convert/{token}", convertHandler(p))
	router.Get("/accounts/{user}", accountHandler(p))
	router.Get("/accounts/{user}/positions/{token}", positionHandler(p))
	router.Get("/accounts/{user}/liquidatable/{token}", liquidatableHandler(p))
	router.Get("/events", eventsHandler(events))

	router.Group(func(r chi.Router) {
		r.Use(auth.LoginRequired)
		r.Post("/actions/{action}", actionHandler(p))
		r.Post("/admin/vaults", setupVaultHandler(p, tokens, pauser))
		r.Post("/admin/pause", pauseHandler(p))
	})

	return router
}
