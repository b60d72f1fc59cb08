// Package http assembles the service's HTTP surface from the feature
// handlers.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar is anything that can mount its routes on the shared router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter mounts every feature handler plus the operational endpoints.
// Each feature carries its own middleware chain so the anonymous login path
// stays free of auth middleware.
func NewRouter(handlers ...Registrar) chi.Router {
	r := chi.NewRouter()

	for _, h := range handlers {
		h.Register(r)
	}

	r.Handle("/metrics", promhttp.Handler())

	return r
}
