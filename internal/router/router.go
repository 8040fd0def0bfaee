package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderly-ai/wanderly-backend/internal/api"
	"github.com/wanderly-ai/wanderly-backend/internal/api/hotels"
	"github.com/wanderly-ai/wanderly-backend/internal/api/places"
	"github.com/wanderly-ai/wanderly-backend/internal/api/placesearch"
	"github.com/wanderly-ai/wanderly-backend/internal/api/tripplan"
)

// Config contains the handlers the router wires up. Server-wide
// middleware (request ID, logger, recoverer) is applied in main before
// this router is mounted.
type Config struct {
	TripPlanHandler    *tripplan.Handler
	HotelHandler       *hotels.Handler
	PlaceHandler       *places.Handler
	PlaceSearchHandler *placesearch.Handler

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler

	// Pool backs the /health database check. May be nil.
	Pool *pgxpool.Pool
}

// SetupRouter initializes and configures the main application router.
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

	r.Get("/health", healthHandler(cfg.Pool))

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/trip", cfg.TripPlanHandler.CreateTripPlan)
		r.Post("/optimize-route", cfg.TripPlanHandler.OptimizeRoute)
		r.Post("/hotels", cfg.HotelHandler.SuggestHotels)

		r.Route("/places", func(r chi.Router) {
			r.Get("/", cfg.PlaceHandler.GetAllPlaces)
			r.Post("/", cfg.PlaceHandler.CreatePlace)
			r.Get("/{id}", cfg.PlaceHandler.GetPlace)
			r.Delete("/{id}", cfg.PlaceHandler.DeletePlace)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{placeId}", cfg.PlaceHandler.GetComments)
			r.Post("/", cfg.PlaceHandler.AddComment)
			r.Delete("/{id}", cfg.PlaceHandler.DeleteComment)
		})

		r.Post("/wait", cfg.PlaceHandler.SubmitWaitTime)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/search", cfg.PlaceSearchHandler.SearchAIPlaces)
			r.Get("/photo", cfg.PlaceSearchHandler.PhotoProxy)
		})

		r.Get("/resolve", cfg.PlaceSearchHandler.ResolvePlace)
	})

	return r
}

func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "db": "connected"}
		code := http.StatusOK
		if pool == nil {
			status["db"] = "not configured"
		} else if err := pool.Ping(r.Context()); err != nil {
			status["status"] = "error"
			status["db"] = "disconnected"
			code = http.StatusInternalServerError
		}
		api.WriteJSONResponse(w, r, code, status)
	}
}
