package banner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/dataurl"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// ErrTooLarge is returned when a banner image exceeds the upload cap.
var ErrTooLarge = fmt.Errorf(
	"banner image exceeds the %s limit",
	humanize.IBytes(models.MaxBannerSize),
)

// SettingsStore persists per-user settings rows.
type SettingsStore interface {
	GetSettings(did string) (*models.Settings, error)
	SaveSettings(settings models.Settings) error
}

// ProfileUpdater writes the banner into the user's profile record on
// their PDS. An empty image clears the banner.
type ProfileUpdater interface {
	SetBanner(ctx context.Context, image string) error
}

// Invalidator drops cached profile views once the banner changes.
type Invalidator interface {
	Invalidate(ctx context.Context, did string)
}

type Service struct {
	store            SettingsStore
	invalidator      Invalidator
	propagationDelay time.Duration
	logger           *slog.Logger
}

func New(cfg config.BannerConfig, store SettingsStore, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{
		store:            store,
		invalidator:      invalidator,
		propagationDelay: cfg.PropagationDelay,
		logger:           logger,
	}
}

// ValidateAndEncode checks a raw upload against the size cap and packs
// it into a data url. The cap applies to the decoded bytes, the same
// bytes that end up in the blob upload.
func ValidateAndEncode(mimeType string, data []byte) (string, error) {
	if len(data) > models.MaxBannerSize {
		return "", ErrTooLarge
	}

	return dataurl.Encode(mimeType, data), nil
}

// AdjustmentFor returns the adjustment the editor should open with.
// Re-editing the currently saved banner restores the saved values; a
// different image (or a user with nothing saved) starts from the
// neutral defaults. An empty image means "the current banner".
func (s *Service) AdjustmentFor(did, image string) (models.BannerAdjustment, error) {
	settings, err := s.store.GetSettings(did)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultAdjustment(), nil
	}
	if err != nil {
		return models.BannerAdjustment{}, err
	}

	if image == "" || image == settings.CustomBanner {
		return settings.BannerAdjustment, nil
	}

	return models.DefaultAdjustment(), nil
}

func (s *Service) settingsOrDefault(did string) (models.Settings, error) {
	settings, err := s.store.GetSettings(did)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(did), nil
	}
	if err != nil {
		return models.Settings{}, err
	}

	return *settings, nil
}

// Save applies a banner change: the adjustment (and any custom image)
// is persisted to settings first, and only once that has succeeded is
// the profile record updated. A settings failure aborts the whole
// save, leaving the profile untouched.
func (s *Service) Save(ctx context.Context, did string, image string, adj models.BannerAdjustment, updater ProfileUpdater) error {
	adj = adj.Clamp()

	settings, err := s.settingsOrDefault(did)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	settings.BannerAdjustment = adj
	if image != "" {
		settings.CustomBanner = image
	}

	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if image != "" {
		if err := updater.SetBanner(ctx, image); err != nil {
			return fmt.Errorf("failed to update profile banner: %w", err)
		}

		// give the PDS and CDN a moment before anyone refetches the
		// profile, otherwise they see the old banner
		select {
		case <-time.After(s.propagationDelay):
		case <-ctx.Done():
			return ctx.Err()
		}

		s.logger.Info("banner updated", "did", did)
	}

	s.invalidator.Invalidate(ctx, did)

	return nil
}

// Remove clears the banner from both the profile record and the
// stored settings, so a later editor session starts fresh.
func (s *Service) Remove(ctx context.Context, did string, updater ProfileUpdater) error {
	if err := updater.SetBanner(ctx, ""); err != nil {
		return fmt.Errorf("failed to clear profile banner: %w", err)
	}

	settings, err := s.settingsOrDefault(did)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	settings.CustomBanner = ""
	settings.BannerAdjustment = models.DefaultAdjustment()

	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("banner removed", "did", did)
	s.invalidator.Invalidate(ctx, did)

	return nil
}
