package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
	"github.com/Baskerbio/Baskermain-sub000/appview/starterpacks"
)

// BrowsePacks lists the packs published by the curated source
// accounts, optionally filtered by category.
func (s *API) BrowsePacks(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "BrowsePacks")

	category := r.URL.Query().Get("category")

	packs, err := s.packs.Browse(category)
	if err != nil {
		l.Error("failed to browse packs", "category", category, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	writeJson(w, packs)
}

func (s *API) MyPacks(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "MyPacks")
	user := s.currentUser(r)

	packs, err := s.packs.Mine(user.Did)
	if err != nil {
		l.Error("failed to load packs", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	if packs == nil {
		packs = []models.StarterPack{}
	}

	writeJson(w, packs)
}

type createPackRequest struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Category    string                     `json:"category"`
	Members     []models.StarterPackMember `json:"members"`
}

func (s *API) CreatePack(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "CreatePack")
	user := s.currentUser(r)

	var req createPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	}

	records, err := s.recordWriter(r)
	if err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	pack, err := s.packs.Create(r.Context(), user.Did, user.Handle, starterpacks.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Members:     req.Members,
	}, records)

	switch {
	case errors.Is(err, starterpacks.ErrPackLimit):
		writeError(w, NewApiError(WithTag("PackLimit"), WithError(err)), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, starterpacks.ErrEmptyName), errors.Is(err, starterpacks.ErrNoMembers):
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	case err != nil:
		l.Error("failed to create pack", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	s.notifier.NewStarterPack(r.Context(), pack)

	writeJson(w, pack)
}

func (s *API) DeletePack(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "DeletePack")
	user := s.currentUser(r)

	rkey := chi.URLParam(r, "rkey")

	records, err := s.recordWriter(r)
	if err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	err = s.packs.Delete(r.Context(), user.Did, rkey, records)
	if errors.Is(err, starterpacks.ErrNotFound) {
		writeError(w, NotFoundError("starter pack"), http.StatusNotFound)
		return
	}
	if err != nil {
		l.Error("failed to delete pack", "did", user.Did, "rkey", rkey, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	s.notifier.DeleteStarterPack(r.Context(), user.Did, rkey)

	w.WriteHeader(http.StatusNoContent)
}

func (s *API) recordWriter(r *http.Request) (starterpacks.RecordWriter, error) {
	client, err := s.auth.AuthorizedClient(r)
	if err != nil {
		return nil, err
	}

	return starterpacks.NewRecordWriter(client, client.Auth.Did), nil
}
