package main

import (
	"context"
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes builds the handler tree. Background work started here stops when ctx is done.
func (app *application) routes(ctx context.Context) http.Handler {
	router := chi.NewRouter()

	// Router
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedRequest)

	// Middleware
	router.Use(app.metrics)
	router.Use(app.recoverPanic)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit(ctx))

	// Healthcheck
	router.Get("/v1/healthcheck", app.HealthCheck)
	router.Method(http.MethodGet, "/v1/metrics", expvar.Handler())

	// Scene Endpoints
	router.Route("/v1/scene", func(router chi.Router) {
		router.Get("/", app.GetScene)
		router.Get("/svg", app.GetSceneSVG)
		router.Get("/watch", app.WatchScene)

		router.Group(func(router chi.Router) {
			router.Use(app.requirePresenter)
			router.Post("/year", app.SelectYear)
			router.Post("/player", app.SelectPlayer)
			router.Post("/back", app.Back)
			router.Post("/reset", app.Reset)
			router.Post("/share", app.ShareScene)
		})
	})

	// Data Endpoints
	router.Get("/v1/years", app.ListYears)
	router.Get("/v1/years/{year}", app.ShowYear)
	router.Get("/v1/years/{year}/players", app.ListYearPlayers)
	router.Get("/v1/players/{id}", app.ShowPlayer)

	return router
}
