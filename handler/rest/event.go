package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
)

func eventsHandler(events core.EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if events == nil {
			render.NotFoundRequest(w, errors.New("event log disabled"))
			return
		}

		var params struct {
			From  int64 `json:"from"`
			Limit int   `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		logs, err := events.List(r.Context(), params.From, params.Limit)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, logs)
	}
}
