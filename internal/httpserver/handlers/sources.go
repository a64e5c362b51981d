package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

type sourcesResponse struct {
	Sources []domain.SourceURL `json:"sources"`
}

// ListSources returns every configured scrape target.
func ListSources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := d.Sources.List(r.Context())
		if err != nil {
			d.Logger.Error("failed to list sources", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list sources")
			return
		}
		if sources == nil {
			sources = []domain.SourceURL{}
		}
		writeJSON(w, http.StatusOK, sourcesResponse{Sources: sources})
	}
}

type putSourceRequest struct {
	Field     string `json:"field"`
	Lang      string `json:"lang"`
	URL       string `json:"url"`
	UpdatedBy string `json:"updatedBy"`
}

type putSourceResponse struct {
	Source domain.SourceURL `json:"source"`
}

// PutSource configures the page to scrape for a (field, lang) pair.
// Unlike the public endpoint, the field is validated strictly here: a
// typo in an admin request should fail loudly, not configure tech.
func PutSource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putSourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		field := domain.ParseField(req.Field)
		if string(field) != req.Field {
			writeError(w, http.StatusBadRequest, "unknown field: "+req.Field)
			return
		}
		lang, err := domain.ParseLang(req.Lang)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unsupported language: "+req.Lang)
			return
		}
		if !validSourceURL(req.URL) {
			writeError(w, http.StatusBadRequest, "url must be absolute http(s)")
			return
		}

		src := domain.SourceURL{
			Field:        field,
			Lang:         lang,
			URL:          req.URL,
			LastModified: d.TimeNow(),
			UpdatedBy:    req.UpdatedBy,
		}
		if err := d.Sources.Upsert(r.Context(), src); err != nil {
			d.Logger.Error("failed to store source",
				logger.String("field", string(field)),
				logger.String("lang", string(lang)),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to store source")
			return
		}

		d.Logger.Info("source configured",
			logger.String("field", string(field)),
			logger.String("lang", string(lang)),
			logger.String("url", req.URL),
			logger.String("updated_by", req.UpdatedBy))
		writeJSON(w, http.StatusOK, putSourceResponse{Source: src})
	}
}

func validSourceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
