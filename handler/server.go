package handler

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/auth"
	"lendpool/handler/hc"
	"lendpool/handler/render"
	"lendpool/handler/rest"
	"lendpool/pkg/metric"
	"lendpool/service/pool"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Config server config
type Config struct {
	Version string
	// AccessTokens bearer tokens mapped to the user they authenticate
	AccessTokens map[string]string
}

// Server server
type Server struct {
	cfg     Config
	pool    *pool.Pool
	tokens  core.TokenRegistry
	pauser  core.Pauser
	events  core.EventStore
	clock   core.Clock
	metrics *metric.Metrics
}

// New new server function
func New(
	cfg Config,
	p *pool.Pool,
	tokens core.TokenRegistry,
	pauser core.Pauser,
	events core.EventStore,
	clock core.Clock,
	metrics *metric.Metrics,
) Server {
	return Server{
		cfg:     cfg,
		pool:    p,
		tokens:  tokens,
		pauser:  pauser,
		events:  events,
		clock:   clock,
		metrics: metrics,
	}
}

// Handler root handler with health check, rest api and metrics mounted
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.NewCompressor(5).Handler)

	{
		//hc
		mux.Mount("/hc", hc.Handle(s.cfg.Version, s.clock))
	}

	{
		//restful api
		mux.Mount("/api", s.HandleRestAPI())
	}

	{
		//metrics
		mux.Mount("/metrics", s.metrics.Handler())
	}

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.HandleAuthentication(s.cfg.AccessTokens))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	r.Mount("/", rest.Handle(s.pool, s.tokens, s.pauser, s.events))
	return r
}
