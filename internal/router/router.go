package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/product-search-service/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	RequestTimeout time.Duration

	// RateLimit is the number of /api requests allowed per IP per RateWindow. Zero disables it.
	RateLimit  int
	RateWindow time.Duration
}

func Setup(h *handler.Handler, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	// Routes
	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimit, opts.RateWindow))
		}
		r.Get("/search", h.Search)
		r.Get("/products/top", h.TopProducts)
		r.Get("/queries/top", h.TopQueries)
	})
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
