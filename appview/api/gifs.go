package api

import (
	"net/http"

	"github.com/Baskerbio/Baskermain-sub000/appview/monitoring"
)

// Gifs proxies Tenor so the API key never reaches the browser. An
// empty q serves the trending feed.
func (s *API) Gifs(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "Gifs")

	query := r.URL.Query().Get("q")

	monitoring.GifSearches.Inc()

	gifs, err := s.tenor.Search(r.Context(), query)
	if err != nil {
		l.Error("tenor search failed", "query", query, "err", err)
		writeError(w, NewApiError(
			WithTag("GifSearchFailed"),
			WithMessage("gif search is unavailable right now"),
		), http.StatusBadGateway)
		return
	}

	writeJson(w, gifs)
}
