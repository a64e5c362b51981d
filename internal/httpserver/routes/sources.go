package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/httpserver/handlers"
	"github.com/karripar/va-backend-sub000/internal/httpserver/mw"
)

func init() { Register(registerSources) }

func registerSources(r chi.Router, d deps.Deps) {
	admin := r.With(
		mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AdminHosts, d.Logger),
		middleware.Timeout(5*time.Second),
	)
	admin.Get("/api/sources", handlers.ListSources(d))
	admin.Put("/api/sources", handlers.PutSource(d))
}
