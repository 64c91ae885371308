package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/posthog/posthog-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Baskerbio/Baskermain-sub000/appview/auth"
	"github.com/Baskerbio/Baskermain-sub000/appview/banner"
	"github.com/Baskerbio/Baskermain-sub000/appview/bsky"
	"github.com/Baskerbio/Baskermain-sub000/appview/cache"
	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/db"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
	"github.com/Baskerbio/Baskermain-sub000/appview/monitoring"
	"github.com/Baskerbio/Baskermain-sub000/appview/notify"
	posthogNotify "github.com/Baskerbio/Baskermain-sub000/appview/notify/posthog"
	"github.com/Baskerbio/Baskermain-sub000/appview/starterpacks"
	"github.com/Baskerbio/Baskermain-sub000/appview/tenor"
	"github.com/Baskerbio/Baskermain-sub000/idresolver"
	tlog "github.com/Baskerbio/Baskermain-sub000/log"
)

// API wires every service behind the JSON surface the frontend talks
// to.
type API struct {
	config     *config.Config
	db         *db.DB
	auth       *auth.Auth
	idResolver *idresolver.Resolver
	profiles   *cache.ProfileCache
	tenor      *tenor.Client
	bsky       *bsky.Client
	latest     *bsky.Latest
	banner     *banner.Service
	packs      *starterpacks.Service
	notifier   notify.Notifier
	logger     *slog.Logger
}

func Make(ctx context.Context, cfg *config.Config) (*API, error) {
	logger := tlog.FromContext(ctx)

	d, err := db.Make(cfg.Core.DbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create db: %w", err)
	}

	res, err := idresolver.RedisResolver(cfg.Redis.ToURL(), cfg.Core.PlcUrl)
	if err != nil {
		logger.Warn("failed to create redis resolver, falling back to in-memory", "err", err)
		res = idresolver.DefaultResolver(cfg.Core.PlcUrl)
	}

	c := cache.New(cfg.Redis.Addr)
	profiles := cache.NewProfileCache(c)

	notifier := notify.Notifier(&notify.BaseNotifier{})
	if cfg.Posthog.ApiKey != "" {
		client, err := posthog.NewWithConfig(cfg.Posthog.ApiKey, posthog.Config{Endpoint: cfg.Posthog.Endpoint})
		if err != nil {
			return nil, fmt.Errorf("failed to create posthog client: %w", err)
		}
		notifier = notify.NewMergedNotifier(posthogNotify.NewPosthogNotifier(client))
	}

	a := auth.New(cfg, d, res, tlog.SubLogger(logger, "auth"))

	bannerSvc := banner.New(
		cfg.Banner,
		settingsStore{d},
		profiles,
		tlog.SubLogger(logger, "banner"),
	)

	packs := starterpacks.New(cfg.StarterPacks, d, res, tlog.SubLogger(logger, "starterpacks"))
	go packs.Run(ctx)

	return &API{
		config:     cfg,
		db:         d,
		auth:       a,
		idResolver: res,
		profiles:   profiles,
		tenor:      tenor.New(cfg.Tenor),
		bsky:       bsky.New(cfg.Bsky),
		latest:     bsky.NewLatest(),
		banner:     bannerSvc,
		packs:      packs,
		notifier:   notifier,
		logger:     logger,
	}, nil
}

func (s *API) Close() error {
	return s.db.Close()
}

func (s *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(monitoring.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Post("/logout", s.Logout)
			r.Get("/me", s.Me)

			r.Get("/profile", s.Profile)
			r.Put("/profile", s.UpdateProfile)
			r.Get("/profile/qr", s.ProfileQr)

			r.Get("/settings", s.Settings)
			r.Put("/settings", s.SaveSettings)

			r.Get("/gifs", s.Gifs)
			r.Get("/actors/search", s.SearchActors)

			r.Post("/banner/upload", s.UploadBanner)
			r.Post("/banner/adjustment", s.BannerAdjustment)
			r.Put("/banner", s.SaveBanner)
			r.Delete("/banner", s.RemoveBanner)

			r.Get("/packs/mine", s.MyPacks)
			r.Post("/packs", s.CreatePack)
			r.Delete("/packs/{rkey}", s.DeletePack)
		})

		// browsing packs needs no session
		r.Get("/packs", s.BrowsePacks)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// settingsStore adapts the package-level db functions to the narrow
// store the banner service wants.
type settingsStore struct {
	db *db.DB
}

func (s settingsStore) GetSettings(did string) (*models.Settings, error) {
	return db.GetSettings(s.db, db.FilterEq("did", did))
}

func (s settingsStore) SaveSettings(m models.Settings) error {
	return db.SaveSettings(s.db, m)
}
