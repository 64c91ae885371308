package api

import (
	"context"
	"net/http"

	"github.com/Baskerbio/Baskermain-sub000/appview/auth"
)

type userCtxKey struct{}

// AuthMiddleware rejects unauthenticated requests with a JSON 401 and
// stashes the resolved user in the request context for handlers.
func (s *API) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.auth.GetUser(r)
		if user == nil {
			writeError(w, AuthRequiredError, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *API) currentUser(r *http.Request) *auth.User {
	if u, ok := r.Context().Value(userCtxKey{}).(*auth.User); ok {
		return u
	}

	return s.auth.GetUser(r)
}
