package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baskerbio/Baskermain-sub000/appview/auth"
	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/dataurl"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

func multipartUpload(t *testing.T, size int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "banner.png")
	require.NoError(t, err)
	_, err = fw.Write(make([]byte, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/banner/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUploadBannerReturnsDataUrl(t *testing.T) {
	s := &API{logger: slog.Default()}

	w := httptest.NewRecorder()
	s.UploadBanner(w, multipartUpload(t, 1024))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, dataurl.IsDataURL(resp["image"]))
}

func TestUploadBannerRejectsOversized(t *testing.T) {
	s := &API{logger: slog.Default()}

	w := httptest.NewRecorder()
	s.UploadBanner(w, multipartUpload(t, models.MaxBannerSize+1))

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp ApiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BannerTooLarge", resp.Tag)
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	cfg := &config.Config{}
	cfg.Core.CookieSecret = "test-secret"

	s := &API{
		logger: slog.Default(),
		auth:   auth.New(cfg, nil, nil, slog.Default()),
	}

	called := false
	handler := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)

	var resp ApiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AuthRequired", resp.Tag)
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, NewApiError(WithTag("Nope"), WithMessage("not like that")), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "Nope", "message": "not like that"}`, w.Body.String())
}
