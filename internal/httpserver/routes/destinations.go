package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/httpserver/handlers"
	"github.com/karripar/va-backend-sub000/internal/httpserver/mw"
)

func init() { Register(registerDestinations) }

func registerDestinations(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Client:     d.RedisClient,
		Requests:   d.RateLimitRequests,
		Window:     d.RateLimitWindow,
		Prefix:     "ratelimit:destinations",
		TrustProxy: d.TrustProxy,
		Logger:     d.Logger,
	})).Get("/api/destinations", handlers.Destinations(d))
}
