package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Baskerbio/Baskermain-sub000/appview/db"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// Settings returns the stored settings row, or the defaults when the
// user never saved any. The frontend cannot tell the difference, by
// intent.
func (s *API) Settings(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "Settings")
	user := s.currentUser(r)

	settings, err := db.GetSettings(s.db, db.FilterEq("did", user.Did))
	if errors.Is(err, sql.ErrNoRows) {
		def := models.DefaultSettings(user.Did)
		writeJson(w, &def)
		return
	}
	if err != nil {
		l.Error("failed to load settings", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	writeJson(w, settings)
}

type saveSettingsRequest struct {
	Theme         string `json:"theme"`
	CompactLayout bool   `json:"compactLayout"`

	// optional; omitting it leaves the stored adjustment alone
	BannerAdjustment *models.BannerAdjustment `json:"bannerAdjustment"`
}

func (s *API) SaveSettings(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "SaveSettings")
	user := s.currentUser(r)

	var req saveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	}

	settings, err := db.GetSettings(s.db, db.FilterEq("did", user.Did))
	if errors.Is(err, sql.ErrNoRows) {
		def := models.DefaultSettings(user.Did)
		settings = &def
	} else if err != nil {
		l.Error("failed to load settings", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	settings.Theme = req.Theme
	settings.CompactLayout = req.CompactLayout
	if req.BannerAdjustment != nil {
		settings.BannerAdjustment = req.BannerAdjustment.Clamp()
	}

	if err := db.SaveSettings(s.db, *settings); err != nil {
		l.Error("failed to save settings", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	writeJson(w, settings)
}
