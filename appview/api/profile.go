package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

func (s *API) Profile(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "Profile")
	user := s.currentUser(r)

	if profile, ok := s.profiles.Get(r.Context(), user.Did); ok {
		writeJson(w, profile)
		return
	}

	profile, err := s.auth.GetProfile(r)
	if err != nil {
		l.Error("failed to fetch profile", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusBadGateway)
		return
	}

	s.profiles.Set(r.Context(), profile)

	writeJson(w, profile)
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

func (s *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "UpdateProfile")
	user := s.currentUser(r)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	}

	pw, err := s.auth.ProfileWriter(r)
	if err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	if err := pw.SetDetails(r.Context(), req.DisplayName, req.Description); err != nil {
		l.Error("failed to update profile", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusBadGateway)
		return
	}

	s.profiles.Invalidate(r.Context(), user.Did)
	s.notifier.UpdateProfile(r.Context(), user.Did)

	w.WriteHeader(http.StatusNoContent)
}

// ProfileQr renders the user's public page address as a QR png, for
// the share sheet.
func (s *API) ProfileQr(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "ProfileQr")
	user := s.currentUser(r)

	target := fmt.Sprintf("%s/%s", s.config.Core.AppviewHost, user.Handle)

	qrc, err := qrcode.NewWith(target, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart))
	if err != nil {
		l.Error("failed to build qr code", "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=86400")

	wr := standard.NewWithWriter(
		nopCloser{w},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(wr); err != nil {
		l.Error("failed to render qr code", "err", err)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
