// Package server exposes the call-prep engine over HTTP. Every response field
// is final: clients render trust levels, offer numbers, and script text
// verbatim and never recompute them locally.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/callprep/internal/config"
	"github.com/sells-group/callprep/internal/prep"
	"github.com/sells-group/callprep/internal/store"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	builder *prep.Builder
	store   store.SnapshotStore
	cfg     config.ServerConfig
	defLow  float64
	defHigh float64
	limiter *rate.Limiter
}

// New creates a Server. defaultLow/defaultHigh are the discount fractions
// applied when the client omits the query parameters.
func New(builder *prep.Builder, st store.SnapshotStore, cfg config.ServerConfig, defaultLow, defaultHigh float64) *Server {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 25
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 50
	}
	return &Server{
		builder: builder,
		store:   st,
		cfg:     cfg,
		defLow:  defaultLow,
		defHigh: defaultHigh,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Prep-Generation", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)

	r.Route("/call-prep/{leadID}", func(r chi.Router) {
		r.Get("/location", s.handleLocation)
		r.Get("/offer", s.handleOffer)
		r.Get("/script", s.handleScript)
		r.Get("/prep-pack", s.handlePrepPack)
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}
