// Package server wires configuration, logging, middleware and routes into
// a runnable HTTP service.
package server

import (
	"context"
	"maps"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/bjaus/personapi/api"
	"github.com/bjaus/personapi/internal/config"
	"github.com/bjaus/personapi/internal/person"
)

// Version is the API version published in the OpenAPI document.
const Version = "0.1.0"

// Health is the liveness response.
type Health struct {
	Status string `json:"status"`
}

// NewRouter builds the router with every route and middleware in place.
func NewRouter(cfg *config.Config, log zerolog.Logger) *api.Router {
	tags := maps.Clone(person.TagDescriptions)
	tags["ops"] = "Operational endpoints"

	var r *api.Router
	r = api.New(
		api.WithTitle("Person API"),
		api.WithVersion(Version),
		api.WithAPIDescription("Create, look up and update people; log in; send contact forms; upload images."),
		api.WithTagDescriptions(tags),
		api.WithErrorHandler(func(w http.ResponseWriter, req *http.Request, err error) {
			if api.ErrorStatus(err) >= http.StatusInternalServerError {
				zerolog.Ctx(req.Context()).Error().Err(err).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Msg("request failed")
			}
			r.WriteProblem(w, req, err)
		}),
	)

	r.Use(api.RequestID())
	r.Use(api.Logger(log))
	r.Use(api.Recovery())
	r.Use(api.CORS(api.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:       600,
	}))
	if cfg.RateLimit.RPS > 0 {
		r.Use(api.RateLimit(api.RateLimitConfig{
			Rate:  cfg.RateLimit.RPS,
			Burst: max(cfg.RateLimit.Burst, 1),
		}))
	}
	if cfg.Server.BodyLimit > 0 {
		r.Use(api.BodyLimit(cfg.Server.BodyLimit))
	}
	if cfg.Server.RequestTimeout > 0 {
		r.Use(api.Timeout(cfg.Server.RequestTimeout))
	}

	person.Register(r)

	api.Get(r, "/healthz", handleHealth,
		api.WithSummary("Liveness probe"),
		api.WithTags("ops"),
	)

	if cfg.Docs.Enabled {
		r.ServeSpec("/openapi.json")
		r.ServeSpecYAML("/openapi.yaml")
		r.ServeDocs("/docs")
		r.ServeDocs("/redoc", api.WithDocsUI(api.ReDoc))
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	r := NewRouter(cfg, log)

	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("env", cfg.Env).
		Bool("docs", cfg.Docs.Enabled).
		Msg("starting server")

	err := r.ListenAndServe(ctx, cfg.Server.Addr,
		api.WithReadHeaderTimeout(cfg.Server.ReadHeaderTimeout),
		api.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)
	if err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func handleHealth(_ context.Context, _ *api.Void) (*Health, error) {
	return &Health{Status: "ok"}, nil
}
