// Package router assembles the versioned HTTP API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/voyaiger/voyaiger-server/docs"
	"github.com/voyaiger/voyaiger-server/internal/api"
	"github.com/voyaiger/voyaiger-server/internal/api/itinerary"
)

// Config carries the handlers the router mounts.
type Config struct {
	ItineraryHandler itinerary.Handler
}

// Generation fans out to three paid upstream APIs, so it gets a tighter
// per-client budget than the rest of the API.
const (
	generateRateLimit  = 10
	generateRatePeriod = time.Minute
)

// SetupRouter wires all routes. Server-wide middleware (request ID, logging,
// recovery, timeouts) is applied by the caller before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	h := cfg.ItineraryHandler
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(
				generateRateLimit,
				generateRatePeriod,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					api.ErrorResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded, slow down")
				}),
			))
			r.Post("/itineraries/generate", h.GenerateItinerary)
		})

		r.Post("/itineraries", h.SaveItinerary)
		r.Get("/itineraries", h.ListItineraries)
		r.Route("/itineraries/{itineraryID}", func(r chi.Router) {
			r.Get("/", h.GetItinerary)
			r.Put("/", h.UpdateItinerary)
			r.Post("/invites", h.CreateInvite)
			r.Get("/invites", h.ListInvites)
		})
		r.Post("/invites/respond", h.RespondInvite)
	})

	return r
}
