package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Baskerbio/Baskermain-sub000/appview/banner"
	"github.com/Baskerbio/Baskermain-sub000/appview/dataurl"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
	"github.com/Baskerbio/Baskermain-sub000/appview/monitoring"
)

// UploadBanner accepts a multipart image and hands back its data-url
// form, the same shape the gif picker produces. Size is checked here,
// before anything touches the PDS.
func (s *API) UploadBanner(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "UploadBanner")

	// generous request cap; the real limit applies to the file bytes
	r.Body = http.MaxBytesReader(w, r.Body, models.MaxBannerSize*2)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		l.Error("failed to read upload", "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	image, err := banner.ValidateAndEncode(header.Header.Get("Content-Type"), data)
	if errors.Is(err, banner.ErrTooLarge) {
		writeError(w, NewApiError(
			WithTag("BannerTooLarge"),
			WithError(err),
		), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]string{"image": image})
}

type adjustmentRequest struct {
	// the image about to be edited; empty means the current banner
	Image string `json:"image"`
}

// BannerAdjustment returns the adjustment the editor should open
// with: the saved values when re-editing the saved banner, the
// neutral defaults for a new image.
func (s *API) BannerAdjustment(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "BannerAdjustment")
	user := s.currentUser(r)

	var req adjustmentRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, InvalidRequestError(err), http.StatusBadRequest)
			return
		}
	}

	adj, err := s.banner.AdjustmentFor(user.Did, req.Image)
	if err != nil {
		l.Error("failed to load adjustment", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	writeJson(w, adj)
}

type saveBannerRequest struct {
	// data url; empty means adjustment-only save
	Image      string                  `json:"image"`
	Adjustment models.BannerAdjustment `json:"adjustment"`
}

func (s *API) SaveBanner(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "SaveBanner")
	user := s.currentUser(r)

	var req saveBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, InvalidRequestError(err), http.StatusBadRequest)
		return
	}

	if req.Image != "" {
		_, data, err := dataurl.Decode(req.Image)
		if err != nil {
			writeError(w, InvalidRequestError(err), http.StatusBadRequest)
			return
		}
		if len(data) > models.MaxBannerSize {
			monitoring.BannerSaves.WithLabelValues("too_large").Inc()
			writeError(w, NewApiError(
				WithTag("BannerTooLarge"),
				WithError(banner.ErrTooLarge),
			), http.StatusRequestEntityTooLarge)
			return
		}
	}

	pw, err := s.auth.ProfileWriter(r)
	if err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	if err := s.banner.Save(r.Context(), user.Did, req.Image, req.Adjustment, pw); err != nil {
		monitoring.BannerSaves.WithLabelValues("error").Inc()
		l.Error("failed to save banner", "did", user.Did, "err", err)
		writeError(w, NewApiError(
			WithTag("BannerSaveFailed"),
			WithError(err),
		), http.StatusBadGateway)
		return
	}

	monitoring.BannerSaves.WithLabelValues("ok").Inc()
	if req.Image != "" {
		s.notifier.NewBanner(r.Context(), user.Did)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *API) RemoveBanner(w http.ResponseWriter, r *http.Request) {
	l := s.logger.With("handler", "RemoveBanner")
	user := s.currentUser(r)

	pw, err := s.auth.ProfileWriter(r)
	if err != nil {
		writeError(w, GenericError(err), http.StatusInternalServerError)
		return
	}

	if err := s.banner.Remove(r.Context(), user.Did, pw); err != nil {
		l.Error("failed to remove banner", "did", user.Did, "err", err)
		writeError(w, GenericError(err), http.StatusBadGateway)
		return
	}

	s.notifier.RemoveBanner(r.Context(), user.Did)

	w.WriteHeader(http.StatusNoContent)
}
