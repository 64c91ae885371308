package starterpacks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	"github.com/Baskerbio/Baskermain-sub000/appview/db"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
	"github.com/Baskerbio/Baskermain-sub000/idresolver"
	"github.com/Baskerbio/Baskermain-sub000/tid"
)

var (
	ErrPackLimit = fmt.Errorf("you can only have up to %d starter packs", models.MaxPacksPerUser)
	ErrNotFound  = fmt.Errorf("starter pack not found")
	ErrEmptyName = fmt.Errorf("starter pack name is required")
	ErrNoMembers = fmt.Errorf("starter pack needs at least one member")
)

// Service owns starter packs: browsing the packs published by the
// configured source accounts, and CRUD over a user's own packs.
type Service struct {
	db        *db.DB
	resolver  *idresolver.Resolver
	sanitizer *bluemonday.Policy
	logger    *slog.Logger

	sources         []string
	refreshInterval time.Duration

	mu         sync.RWMutex
	sourceDids map[string]string
}

func New(cfg config.StarterPackConfig, d *db.DB, resolver *idresolver.Resolver, logger *slog.Logger) *Service {
	return &Service{
		db:              d,
		resolver:        resolver,
		sanitizer:       bluemonday.StrictPolicy(),
		logger:          logger,
		sources:         cfg.Sources,
		refreshInterval: cfg.RefreshInterval,
		sourceDids:      make(map[string]string),
	}
}

// RefreshSources resolves the configured source handles to DIDs.
// Handles can be re-pointed at new DIDs, so this runs periodically
// rather than once at startup.
func (s *Service) RefreshSources(ctx context.Context) {
	for _, handle := range s.sources {
		did, err := retry.DoWithData(
			func() (string, error) {
				ident, err := s.resolver.ResolveIdent(ctx, handle)
				if err != nil {
					return "", err
				}
				return ident.DID.String(), nil
			},
			retry.Attempts(3),
			retry.Context(ctx),
		)
		if err != nil {
			s.logger.Error("failed to resolve starter pack source", "handle", handle, "err", err)
			continue
		}

		s.mu.Lock()
		s.sourceDids[handle] = did
		s.mu.Unlock()
	}
}

// Run keeps the source handle resolutions fresh until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) {
	s.RefreshSources(ctx)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshSources(ctx)
		}
	}
}

// Browse returns the packs of every source account, in configured
// source order, optionally narrowed to one category. Category "all"
// (or empty) matches everything.
func (s *Service) Browse(category string) ([]models.StarterPack, error) {
	s.mu.RLock()
	dids := make([]string, 0, len(s.sources))
	for _, handle := range s.sources {
		if did, ok := s.sourceDids[handle]; ok {
			dids = append(dids, did)
		}
	}
	s.mu.RUnlock()

	all := make([]models.StarterPack, 0)
	for _, did := range dids {
		filters := []db.Filter{db.FilterEq("did", did)}
		if category != "" && category != models.CategoryAll {
			filters = append(filters, db.FilterEq("category", category))
		}

		packs, err := db.GetStarterPacks(s.db, filters...)
		if err != nil {
			return nil, fmt.Errorf("failed to load packs for %s: %w", did, err)
		}
		all = append(all, packs...)
	}

	return all, nil
}

// Mine returns the packs owned by the given DID.
func (s *Service) Mine(did string) ([]models.StarterPack, error) {
	return db.GetStarterPacks(s.db, db.FilterEq("did", did))
}

type CreateInput struct {
	Name        string
	Description string
	Category    string
	Members     []models.StarterPackMember
}

// Create persists a new pack for the owner, caps enforced. Members
// are stored alongside the pack so a reload shows them again.
func (s *Service) Create(ctx context.Context, ownerDid, ownerHandle string, input CreateInput, records RecordWriter) (*models.StarterPack, error) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(input.Members) == 0 {
		return nil, ErrNoMembers
	}

	count, err := db.CountStarterPacks(s.db, db.FilterEq("did", ownerDid))
	if err != nil {
		return nil, fmt.Errorf("failed to count packs: %w", err)
	}
	if count >= models.MaxPacksPerUser {
		return nil, ErrPackLimit
	}

	category := input.Category
	if category == "" {
		category = models.CategoryAll
	}

	now := time.Now()
	members := make([]models.StarterPackMember, len(input.Members))
	for i, m := range input.Members {
		members[i] = models.StarterPackMember{
			Did:         m.Did,
			Handle:      m.Handle,
			DisplayName: s.sanitizer.Sanitize(m.DisplayName),
			Avatar:      m.Avatar,
			Added:       now,
		}
	}

	pack := &models.StarterPack{
		Did:           ownerDid,
		Rkey:          tid.TID(),
		Name:          name,
		Description:   strings.TrimSpace(s.sanitizer.Sanitize(input.Description)),
		Category:      category,
		Members:       members,
		CreatorHandle: ownerHandle,
		Created:       now,
	}

	if records != nil {
		if err := records.PutStarterPack(ctx, pack); err != nil {
			return nil, fmt.Errorf("failed to write pack record: %w", err)
		}
	}

	if err := db.AddStarterPack(s.db, pack); err != nil {
		return nil, fmt.Errorf("failed to store pack: %w", err)
	}

	return pack, nil
}

// Delete removes the pack identified by rkey, but only when ownerDid
// actually owns it. Ownership is checked here, not trusted from the
// client.
func (s *Service) Delete(ctx context.Context, ownerDid, rkey string, records RecordWriter) error {
	packs, err := db.GetStarterPacks(s.db, db.FilterEq("did", ownerDid), db.FilterEq("rkey", rkey))
	if err != nil {
		return fmt.Errorf("failed to load pack: %w", err)
	}
	if len(packs) == 0 {
		return ErrNotFound
	}

	if records != nil {
		if err := records.DeleteStarterPack(ctx, rkey); err != nil {
			return fmt.Errorf("failed to delete pack record: %w", err)
		}
	}

	return db.DeleteStarterPack(s.db, db.FilterEq("did", ownerDid), db.FilterEq("rkey", rkey))
}
