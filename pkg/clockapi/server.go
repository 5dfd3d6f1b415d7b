/*
ITC Clock Service REST API

HTTP surface over a single served ItcPair and its companion ItcMap.

Version: 1.0.0
Host: localhost:8080
BasePath: /api/v1

SecurityDefinitions:
  - ApiKeyAuth:
    type: apiKey
    in: header
    name: X-API-Key

swagger:meta
*/
package clockapi

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter builds the chi router for a clock API server without starting
// it, so tests can exercise it with httptest.
func NewRouter(service *ClockService, config ServerConfig, metrics *Metrics) chi.Router {
	server := NewServer(service, config, metrics)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Health is unprotected so it can be used as a liveness probe.
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Group(func(r chi.Router) {
			r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

			r.Post("/fork", metrics.InstrumentHandler("POST", "/api/v1/fork", server.handleFork))
			r.Post("/event", metrics.InstrumentHandler("POST", "/api/v1/event", server.handleEvent))
			r.Post("/join", metrics.InstrumentHandler("POST", "/api/v1/join", server.handleJoin))
			r.Post("/sync", metrics.InstrumentHandler("POST", "/api/v1/sync", server.handleSync))
			r.Get("/peek", metrics.InstrumentHandler("GET", "/api/v1/peek", server.handlePeek))

			r.Put("/map/{path}", metrics.InstrumentHandler("PUT", "/api/v1/map/{path}", server.handleMapSet))
			r.Get("/map/diff", metrics.InstrumentHandler("GET", "/api/v1/map/diff", server.handleMapDiff))
			r.Post("/map/apply", metrics.InstrumentHandler("POST", "/api/v1/map/apply", server.handleMapApply))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", config.Port)),
	))

	return r
}

// StartServer starts the HTTP server with every route wired.
func StartServer(service *ClockService, config ServerConfig) error {
	metrics := NewMetrics()
	r := NewRouter(service, config, metrics)

	addr := fmt.Sprintf(":%d", config.Port)
	fmt.Printf("Starting itcclock REST API on %s\n", addr)
	fmt.Printf("Metrics available at: http://localhost:%d/metrics\n", config.Port)
	log.Fatal(http.ListenAndServe(addr, r))

	return nil
}
