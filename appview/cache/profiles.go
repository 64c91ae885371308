package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// ProfileCache mirrors PDS profiles so the frontend does not hit the
// PDS on every page load. Entries are dropped whenever the appview
// writes to the profile.
type ProfileCache struct {
	cache *Cache
	ttl   time.Duration
}

func NewProfileCache(c *Cache) *ProfileCache {
	return &ProfileCache{
		cache: c,
		ttl:   time.Minute * 10,
	}
}

func profileKey(did string) string {
	return "profile:" + did
}

func (p *ProfileCache) Get(ctx context.Context, did string) (*models.Profile, bool) {
	raw, err := p.cache.Client.Get(ctx, profileKey(did)).Bytes()
	if err != nil {
		return nil, false
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, false
	}

	return &profile, true
}

func (p *ProfileCache) Set(ctx context.Context, profile *models.Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}

	p.cache.Client.Set(ctx, profileKey(profile.Did), raw, p.ttl)
}

func (p *ProfileCache) Invalidate(ctx context.Context, did string) {
	p.cache.Client.Del(ctx, profileKey(did))
}
