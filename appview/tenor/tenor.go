package tenor

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

// Client talks to the Tenor v2 API. Results are mapped straight to
// models.GifResult and never persisted.
type Client struct {
	endpoint string
	apiKey   string
	limit    int
	client   *http.Client
}

func New(cfg config.TenorConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.ApiKey,
		limit:    cfg.Limit,
		client: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

type tenorResponse struct {
	Results []struct {
		Id                 string `json:"id"`
		ContentDescription string `json:"content_description"`
		MediaFormats       struct {
			Gif struct {
				Url string `json:"url"`
			} `json:"gif"`
			TinyGif struct {
				Url string `json:"url"`
			} `json:"tinygif"`
		} `json:"media_formats"`
	} `json:"results"`
}

// Trending fetches the current featured gifs.
func (c *Client) Trending(ctx context.Context) ([]models.GifResult, error) {
	return c.fetch(ctx, "featured", "")
}

// Search queries Tenor. An empty query falls back to Trending rather
// than issuing a search with an empty term.
func (c *Client) Search(ctx context.Context, query string) ([]models.GifResult, error) {
	if query == "" {
		return c.Trending(ctx)
	}
	return c.fetch(ctx, "search", query)
}

func (c *Client) fetch(ctx context.Context, kind, query string) ([]models.GifResult, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("contentfilter", "high")
	params.Set("media_filter", "gif")
	if query != "" {
		params.Set("q", query)
	}

	u := fmt.Sprintf("%s/%s?%s", c.endpoint, kind, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tenor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tenor returned status %d", resp.StatusCode)
	}

	var body tenorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode tenor response: %w", err)
	}

	// an empty result set is not an error; the frontend renders
	// "No results" off the empty list
	gifs := []models.GifResult{}
	for _, r := range body.Results {
		full := r.MediaFormats.Gif.Url
		preview := r.MediaFormats.TinyGif.Url

		if full == "" {
			full = preview
		}
		if full == "" {
			// nothing usable to render
			continue
		}
		if preview == "" {
			preview = full
		}

		gifs = append(gifs, models.GifResult{
			Id:         r.Id,
			Url:        full,
			PreviewUrl: preview,
			Title:      r.ContentDescription,
		})
	}

	return gifs, nil
}
