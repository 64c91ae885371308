package starterpacks

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/db"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

type fakeRecords struct {
	puts    []string
	deletes []string
	putErr  error
}

func (f *fakeRecords) PutStarterPack(ctx context.Context, pack *models.StarterPack) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, pack.Rkey)
	return nil
}

func (f *fakeRecords) DeleteStarterPack(ctx context.Context, rkey string) error {
	f.deletes = append(f.deletes, rkey)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	d, err := db.Make(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	return New(
		config.StarterPackConfig{Sources: []string{"basker.bio", "samthibault.bsky.social"}},
		d,
		nil,
		slog.Default(),
	)
}

func makeInput(name string) CreateInput {
	return CreateInput{
		Name:     name,
		Category: "creators",
		Members: []models.StarterPackMember{
			{Did: "did:plc:alice", Handle: "alice.bsky.social", DisplayName: "Alice"},
		},
	}
}

func TestCreateAndReload(t *testing.T) {
	svc := newTestService(t)
	records := &fakeRecords{}

	pack, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", makeInput("My people"), records)
	require.NoError(t, err)
	assert.NotEmpty(t, pack.Rkey)
	assert.Equal(t, []string{pack.Rkey}, records.puts)

	// members must survive a reload, not just the pack shell
	mine, err := svc.Mine("did:plc:owner")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Members, 1)
	assert.Equal(t, "did:plc:alice", mine[0].Members[0].Did)
	assert.Equal(t, "My people", mine[0].Name)
}

func TestCreateEnforcesPackLimit(t *testing.T) {
	svc := newTestService(t)

	for i := range models.MaxPacksPerUser {
		_, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", makeInput(fmt.Sprintf("pack %d", i)), nil)
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", makeInput("one too many"), nil)
	assert.ErrorIs(t, err, ErrPackLimit)

	// the limit is per user, not global
	_, err = svc.Create(context.Background(), "did:plc:other", "other.bsky.social", makeInput("fine"), nil)
	assert.NoError(t, err)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := newTestService(t)

	input := makeInput("  ")
	_, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", input, nil)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateRejectsEmptyMembers(t *testing.T) {
	svc := newTestService(t)

	input := makeInput("people")
	input.Members = nil
	_, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", input, nil)
	assert.ErrorIs(t, err, ErrNoMembers)
}

func TestCreateSanitizesMarkup(t *testing.T) {
	svc := newTestService(t)

	input := makeInput(`<script>alert(1)</script>devs`)
	input.Description = `follow <b>these</b> folks`

	pack, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", input, nil)
	require.NoError(t, err)
	assert.Equal(t, "devs", pack.Name)
	assert.Equal(t, "follow these folks", pack.Description)
}

func TestCreateAbortsWhenRecordWriteFails(t *testing.T) {
	svc := newTestService(t)
	records := &fakeRecords{putErr: fmt.Errorf("pds down")}

	_, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", makeInput("people"), records)
	require.Error(t, err)

	mine, err := svc.Mine("did:plc:owner")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	svc := newTestService(t)

	pack, err := svc.Create(context.Background(), "did:plc:owner", "owner.bsky.social", makeInput("people"), nil)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "did:plc:intruder", pack.Rkey, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := svc.Mine("did:plc:owner")
	require.NoError(t, err)
	assert.Len(t, mine, 1, "someone else's delete must not remove the pack")

	records := &fakeRecords{}
	err = svc.Delete(context.Background(), "did:plc:owner", pack.Rkey, records)
	require.NoError(t, err)
	assert.Equal(t, []string{pack.Rkey}, records.deletes)

	mine, err = svc.Mine("did:plc:owner")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestBrowseConcatsSourcesInOrder(t *testing.T) {
	svc := newTestService(t)
	svc.sourceDids = map[string]string{
		"basker.bio":              "did:plc:basker",
		"samthibault.bsky.social": "did:plc:sam",
	}

	// insert out of configured order
	_, err := svc.Create(context.Background(), "did:plc:sam", "samthibault.bsky.social", makeInput("sam picks"), nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "did:plc:basker", "basker.bio", makeInput("official"), nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "did:plc:rando", "rando.bsky.social", makeInput("not browsable"), nil)
	require.NoError(t, err)

	packs, err := svc.Browse(models.CategoryAll)
	require.NoError(t, err)
	require.Len(t, packs, 2)
	assert.Equal(t, "did:plc:basker", packs[0].Did)
	assert.Equal(t, "did:plc:sam", packs[1].Did)
}

func TestBrowseFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	svc.sourceDids = map[string]string{"basker.bio": "did:plc:basker"}

	devs := makeInput("devs")
	devs.Category = "developers"
	_, err := svc.Create(context.Background(), "did:plc:basker", "basker.bio", devs, nil)
	require.NoError(t, err)

	artists := makeInput("artists")
	artists.Category = "artists"
	_, err = svc.Create(context.Background(), "did:plc:basker", "basker.bio", artists, nil)
	require.NoError(t, err)

	packs, err := svc.Browse("developers")
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, "devs", packs[0].Name)

	packs, err = svc.Browse("all")
	require.NoError(t, err)
	assert.Len(t, packs, 2)

	packs, err = svc.Browse("")
	require.NoError(t, err)
	assert.Len(t, packs, 2)
}

func TestBrowseEmptyWhenSourcesUnresolved(t *testing.T) {
	svc := newTestService(t)

	packs, err := svc.Browse(models.CategoryAll)
	require.NoError(t, err)
	assert.Empty(t, packs)
}
