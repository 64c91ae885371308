package bsky

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchActors(t *testing.T) {
	var gotPath, gotTerm, gotLimit string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTerm = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{
			"actors": [
				{
					"did": "did:plc:alice",
					"handle": "alice.bsky.social",
					"displayName": "Alice",
					"avatar": "https://cdn.bsky.app/alice.jpg",
					"followersCount": 10,
					"followsCount": 20,
					"postsCount": 30
				}
			]
		}`))
	}))
	defer srv.Close()

	c := New(config.BskyConfig{Endpoint: srv.URL, SearchLimit: 10})

	actors, err := c.SearchActors(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "/xrpc/app.bsky.actor.searchActors", gotPath)
	assert.Equal(t, "alice", gotTerm)
	assert.Equal(t, "10", gotLimit)

	require.Len(t, actors, 1)
	assert.Equal(t, "did:plc:alice", actors[0].Did)
	assert.Equal(t, "alice.bsky.social", actors[0].Handle)
	assert.Equal(t, int64(10), actors[0].FollowersCount)
}

func TestSearchActorsEmptyTerm(t *testing.T) {
	c := New(config.BskyConfig{Endpoint: "http://unreachable.invalid", SearchLimit: 10})

	actors, err := c.SearchActors(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, actors)
}

func TestLatestSupersedesInflight(t *testing.T) {
	l := NewLatest()

	first, done1 := l.Begin("sess-1", context.Background())
	defer done1()

	assert.NoError(t, first.Err())

	// a second search under the same key cancels the first
	second, done2 := l.Begin("sess-1", context.Background())
	defer done2()

	assert.Error(t, first.Err())
	assert.NoError(t, second.Err())
}

func TestLatestKeysAreIndependent(t *testing.T) {
	l := NewLatest()

	a, doneA := l.Begin("sess-a", context.Background())
	defer doneA()
	_, doneB := l.Begin("sess-b", context.Background())
	defer doneB()

	assert.NoError(t, a.Err(), "searches from other sessions must not cancel ours")
}

func TestLatestFinishDoesNotClobberNewer(t *testing.T) {
	l := NewLatest()

	_, done1 := l.Begin("sess-1", context.Background())
	second, done2 := l.Begin("sess-1", context.Background())
	defer done2()

	// the superseded search finishing late must not cancel or
	// unregister the newer one
	done1()
	assert.NoError(t, second.Err())

	third, done3 := l.Begin("sess-1", context.Background())
	defer done3()
	assert.Error(t, second.Err())
	assert.NoError(t, third.Err())
}
