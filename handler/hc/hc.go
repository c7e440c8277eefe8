package hc

import (
	"net/http"
	"time"

	"lendpool/core"
	"lendpool/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle handle hc request, the pool clock is reported when given
func Handle(ver string, clock core.Clock) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, clock))
	return r
}

func handle(version string, clock core.Clock) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		resp := render.H{
			"uptime":  uptime.String(),
			"version": version,
		}

		if clock != nil {
			resp["step"] = clock.Now().Step
		}

		render.JSON(w, resp)
	}
}
