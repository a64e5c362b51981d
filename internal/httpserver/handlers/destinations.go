package handlers

import (
	"errors"
	"net/http"

	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

type destinationsResponse struct {
	Destinations domain.SectionedDestinations `json:"destinations"`
}

// Destinations serves the public directory. An unknown field silently
// falls back to the default; an unknown language is a client error.
func Destinations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := domain.ParseField(r.URL.Query().Get("field"))

		rawLang := r.URL.Query().Get("lang")
		if rawLang == "" {
			rawLang = string(domain.LangEN)
		}
		lang, err := domain.ParseLang(rawLang)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unsupported language: "+rawLang)
			return
		}

		sections, err := d.Builder.BuildDestinations(r.Context(), field, lang)
		if err != nil {
			if errors.Is(err, domain.ErrNotConfigured) {
				writeError(w, http.StatusNotFound, "no source configured for "+string(field)+"/"+string(lang))
				return
			}
			d.Logger.Error("failed to build destinations",
				logger.String("field", string(field)),
				logger.String("lang", string(lang)),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to build destinations")
			return
		}

		writeJSON(w, http.StatusOK, destinationsResponse{Destinations: sections})
	}
}
