package bsky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// Client wraps the unauthenticated Bluesky appview API. Only actor
// search is used; everything session-scoped goes through the user's
// PDS instead.
type Client struct {
	endpoint string
	limit    int64
	client   *http.Client
}

func New(cfg config.BskyConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		limit:    cfg.SearchLimit,
		client: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

type searchActorsResponse struct {
	Actors []struct {
		Did         string `json:"did"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
		Avatar      string `json:"avatar"`
		Description string `json:"description"`

		FollowersCount int64 `json:"followersCount"`
		FollowsCount   int64 `json:"followsCount"`
		PostsCount     int64 `json:"postsCount"`
	} `json:"actors"`
}

// SearchActors queries app.bsky.actor.searchActors with the
// configured result limit.
func (c *Client) SearchActors(ctx context.Context, term string) ([]models.Profile, error) {
	if term == "" {
		return []models.Profile{}, nil
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("limit", strconv.FormatInt(c.limit, 10))

	u := fmt.Sprintf("%s/xrpc/app.bsky.actor.searchActors?%s", c.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("actor search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("actor search returned status %d", resp.StatusCode)
	}

	var body searchActorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode actor search response: %w", err)
	}

	actors := make([]models.Profile, 0, len(body.Actors))
	for _, a := range body.Actors {
		actors = append(actors, models.Profile{
			Did:            a.Did,
			Handle:         a.Handle,
			DisplayName:    a.DisplayName,
			Avatar:         a.Avatar,
			Description:    a.Description,
			FollowersCount: a.FollowersCount,
			FollowsCount:   a.FollowsCount,
			PostsCount:     a.PostsCount,
		})
	}

	return actors, nil
}
