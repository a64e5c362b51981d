package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/httpserver/handlers"
	"github.com/karripar/va-backend-sub000/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AdminHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Client:     d.RedisClient,
			Requests:   d.RateLimitRequests,
			Window:     d.RateLimitWindow,
			Prefix:     "ratelimit:refresh",
			TrustProxy: d.TrustProxy,
			Logger:     d.Logger,
		}),
	).Post("/api/refresh", handlers.Refresh(d))
}
