package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Did    string `json:"did"`
	Handle string `json:"handle"`
}

func (s *API) Login(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "Login")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	}

	if req.Identifier == "" || req.Password == "" {
		writeError(w, InvalidRequestError(fmt.Errorf("identifier and password are required")), http.StatusBadRequest)
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		l.Error("login failed", "identifier", req.Identifier, "err", err)
		writeError(w, NewApiError(
			WithTag("LoginFailed"),
			WithMessage("invalid identifier or app password"),
		), http.StatusUnauthorized)
		return
	}

	if err := s.auth.SaveSession(w, r, sess); err != nil {
		l.Error("failed to save session cookie", "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	s.notifier.NewSignIn(r.Context(), sess.Did)

	writeJson(w, loginResponse{Did: sess.Did, Handle: sess.Handle})
}

func (s *API) Logout(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "Logout")

	if err := s.auth.DeleteSession(w, r); err != nil {
		l.Error("failed to delete session", "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *API) Me(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)

	writeJson(w, loginResponse{Did: user.Did, Handle: user.Handle})
}
