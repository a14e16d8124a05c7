// Package httpapi exposes an items.Service over HTTP.
//
// Routes:
//
//	POST   /items         create an entity from a JSON object
//	GET    /items         list entities (with a "cached" flag)
//	GET    /items/{id}    read one entity (with a "cached" flag)
//	PUT    /items/{id}    merge fields into an entity
//	DELETE /items/{id}    delete an entity
//	POST   /cache/clear   drop every cached entry
//	GET    /health        liveness probe
//	GET    /metrics       Prometheus exposition
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/item-cache/pkg/items"
	"github.com/Sternrassler/item-cache/pkg/logging"
	"github.com/Sternrassler/item-cache/pkg/metrics"
)

// maxBodyBytes caps request bodies accepted by write endpoints.
const maxBodyBytes = 1 << 20

// Handler serves the item routes.
type Handler struct {
	svc    *items.Service
	logger zerolog.Logger
}

// NewHandler creates a handler over svc.
func NewHandler(svc *items.Service) *Handler {
	return &Handler{
		svc:    svc,
		logger: logging.NewLogger("httpapi"),
	}
}

// Routes builds the chi router with middleware attached.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.createItem)
		r.Get("/", h.listItems)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getItem)
			r.Put("/", h.updateItem)
			r.Delete("/", h.deleteItem)
		})
	})

	r.Post("/cache/clear", h.clearCache)

	return r
}

// NewRouter is shorthand for NewHandler(svc).Routes().
func NewRouter(svc *items.Service) http.Handler {
	return NewHandler(svc).Routes()
}
