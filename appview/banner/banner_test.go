package banner

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// fakeStore records the order of settings operations so the tests can
// assert that the settings write lands before the profile write.
type fakeStore struct {
	calls    *[]string
	settings map[string]models.Settings
	saveErr  error
}

func (f *fakeStore) GetSettings(did string) (*models.Settings, error) {
	s, ok := f.settings[did]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStore) SaveSettings(s models.Settings) error {
	*f.calls = append(*f.calls, "settings")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.settings[s.Did] = s
	return nil
}

type fakeUpdater struct {
	calls  *[]string
	banner *string
	err    error
}

func (f *fakeUpdater) SetBanner(ctx context.Context, image string) error {
	*f.calls = append(*f.calls, "profile")
	if f.err != nil {
		return f.err
	}
	f.banner = &image
	return nil
}

type fakeInvalidator struct {
	calls *[]string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, did string) {
	*f.calls = append(*f.calls, "invalidate")
}

func newFixture() (*Service, *fakeStore, *fakeUpdater, *fakeInvalidator) {
	calls := &[]string{}
	store := &fakeStore{calls: calls, settings: map[string]models.Settings{}}
	updater := &fakeUpdater{calls: calls}
	inv := &fakeInvalidator{calls: calls}

	svc := New(
		config.BannerConfig{PropagationDelay: time.Millisecond},
		store,
		inv,
		slog.Default(),
	)

	return svc, store, updater, inv
}

func TestSaveWritesSettingsBeforeProfile(t *testing.T) {
	svc, store, updater, _ := newFixture()

	err := svc.Save(context.Background(), "did:plc:x", "data:image/png;base64,aGVsbG8=", models.DefaultAdjustment(), updater)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(*store.calls), 2)
	assert.Equal(t, "settings", (*store.calls)[0])
	assert.Equal(t, "profile", (*store.calls)[1])
}

func TestSaveAbortsWhenSettingsFail(t *testing.T) {
	svc, store, updater, _ := newFixture()
	store.saveErr = fmt.Errorf("disk full")

	err := svc.Save(context.Background(), "did:plc:x", "data:image/png;base64,aGVsbG8=", models.DefaultAdjustment(), updater)
	require.Error(t, err)

	assert.NotContains(t, *store.calls, "profile", "profile must not be touched when settings persistence fails")
	assert.Nil(t, updater.banner)
}

func TestSaveClampsAdjustment(t *testing.T) {
	svc, store, updater, _ := newFixture()

	adj := models.BannerAdjustment{Scale: 9000, PositionX: -5, PositionY: 150, Rotation: 720}
	err := svc.Save(context.Background(), "did:plc:x", "", adj, updater)
	require.NoError(t, err)

	saved := store.settings["did:plc:x"]
	assert.Equal(t, 300, saved.BannerAdjustment.Scale)
	assert.Equal(t, 0, saved.BannerAdjustment.PositionX)
	assert.Equal(t, 100, saved.BannerAdjustment.PositionY)
	assert.Equal(t, 180, saved.BannerAdjustment.Rotation)
}

func TestSaveWithoutImageSkipsProfile(t *testing.T) {
	svc, store, updater, _ := newFixture()
	store.settings["did:plc:x"] = models.Settings{
		Did:          "did:plc:x",
		CustomBanner: "data:image/gif;base64,b2xk",
	}

	err := svc.Save(context.Background(), "did:plc:x", "", models.BannerAdjustment{Scale: 140, PositionX: 30, PositionY: 60}, updater)
	require.NoError(t, err)

	assert.NotContains(t, *store.calls, "profile")
	// an adjustment-only save must not drop the stored image
	assert.Equal(t, "data:image/gif;base64,b2xk", store.settings["did:plc:x"].CustomBanner)
}

func TestSaveInvalidatesCacheAfterProfileWrite(t *testing.T) {
	svc, store, updater, _ := newFixture()

	err := svc.Save(context.Background(), "did:plc:x", "data:image/png;base64,aGVsbG8=", models.DefaultAdjustment(), updater)
	require.NoError(t, err)

	assert.Equal(t, []string{"settings", "profile", "invalidate"}, *store.calls)
}

func TestAdjustmentForNeverSaved(t *testing.T) {
	svc, _, _, _ := newFixture()

	adj, err := svc.AdjustmentFor("did:plc:nobody", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAdjustment(), adj)
}

func TestAdjustmentForRestoresSavedBanner(t *testing.T) {
	svc, store, _, _ := newFixture()
	want := models.BannerAdjustment{Scale: 180, PositionX: 10, PositionY: 90, Rotation: -45}
	store.settings["did:plc:x"] = models.Settings{
		Did:              "did:plc:x",
		CustomBanner:     "data:image/gif;base64,c2F2ZWQ=",
		BannerAdjustment: want,
	}

	// re-editing the saved banner restores the saved adjustment
	adj, err := svc.AdjustmentFor("did:plc:x", "data:image/gif;base64,c2F2ZWQ=")
	require.NoError(t, err)
	assert.Equal(t, want, adj)

	// so does opening the editor on the current banner
	adj, err = svc.AdjustmentFor("did:plc:x", "")
	require.NoError(t, err)
	assert.Equal(t, want, adj)
}

func TestAdjustmentForNewImageResets(t *testing.T) {
	svc, store, _, _ := newFixture()
	store.settings["did:plc:x"] = models.Settings{
		Did:              "did:plc:x",
		CustomBanner:     "data:image/gif;base64,c2F2ZWQ=",
		BannerAdjustment: models.BannerAdjustment{Scale: 180, PositionX: 10, PositionY: 90, Rotation: -45},
	}

	adj, err := svc.AdjustmentFor("did:plc:x", "data:image/gif;base64,bmV3")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAdjustment(), adj)
}

func TestRemoveClearsProfileAndSettings(t *testing.T) {
	svc, store, updater, _ := newFixture()
	store.settings["did:plc:x"] = models.Settings{
		Did:              "did:plc:x",
		CustomBanner:     "data:image/gif;base64,b2xk",
		BannerAdjustment: models.BannerAdjustment{Scale: 200, PositionX: 1, PositionY: 2, Rotation: 3},
	}

	err := svc.Remove(context.Background(), "did:plc:x", updater)
	require.NoError(t, err)

	require.NotNil(t, updater.banner)
	assert.Empty(t, *updater.banner)

	saved := store.settings["did:plc:x"]
	assert.Empty(t, saved.CustomBanner)
	assert.Equal(t, models.DefaultAdjustment(), saved.BannerAdjustment)
}

func TestRemoveKeepsSettingsWhenProfileFails(t *testing.T) {
	svc, store, updater, _ := newFixture()
	store.settings["did:plc:x"] = models.Settings{
		Did:          "did:plc:x",
		CustomBanner: "data:image/gif;base64,b2xk",
	}
	updater.err = fmt.Errorf("pds unreachable")

	err := svc.Remove(context.Background(), "did:plc:x", updater)
	require.Error(t, err)

	assert.Equal(t, "data:image/gif;base64,b2xk", store.settings["did:plc:x"].CustomBanner)
}

func TestValidateAndEncodeRejectsOversized(t *testing.T) {
	data := make([]byte, models.MaxBannerSize+1)

	_, err := ValidateAndEncode("image/png", data)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestValidateAndEncodeAcceptsAtLimit(t *testing.T) {
	data := make([]byte, models.MaxBannerSize)

	u, err := ValidateAndEncode("image/png", data)
	require.NoError(t, err)
	assert.True(t, len(u) > 0)
}
