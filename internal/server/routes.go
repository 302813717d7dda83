package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/foodmood/foodmood/internal/handler/health"
	"github.com/foodmood/foodmood/internal/session"
)

func addRoutes(r chi.Router, a *app) {
	searchLimit := newIPRateLimiter(a.SearchRate, a.SearchBurst, a.logger).limit

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("foodmood API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(a.logger, a.Health).Routes())
	r.Handle("/static/*", handleStatic())

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(a.Store, a.CookieSecure, a.SessionTTL))

		r.Get("/", handlePage(a))
		r.With(searchLimit).Post("/search", handleSearchForm(a))
		r.Post("/try-again", handleTryAgain(a))

		r.Route("/api", func(r chi.Router) {
			r.With(searchLimit).Post("/search", handleSearchAPI(a))

			r.Get("/location", handleLocationStatus(a))
			r.Post("/location/device", handleLocationDevice(a))
			r.Post("/location/lookup", handleLocationLookup(a))
			r.Post("/location/select", handleLocationSelect(a))
			r.Get("/events", handleEvents(a.broker))

			r.Post("/session/signin", handleSignIn(a))
			r.Post("/session/signout", handleSignOut(a))
			r.Post("/feedback", handleFeedback(a))
		})
	})
}
