package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// SearchActors looks up actors for the member picker. Searches are
// keyed per user: firing a new one cancels the previous in-flight
// request so stale results never land on top of fresh ones.
func (s *API) SearchActors(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "SearchActors")
	user := s.currentUser(r)

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJson(w, []models.Profile{})
		return
	}

	ctx, finish := s.latest.Begin(user.Did, r.Context())
	defer finish()

	actors, err := s.bsky.SearchActors(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// superseded by a newer search from the same user
			w.WriteHeader(http.StatusNoContent)
			return
		}
		l.Error("actor search failed", "query", query, "err", err)
		writeError(w, GenericError(err), http.StatusBadGateway)
		return
	}

	writeJson(w, actors)
}
