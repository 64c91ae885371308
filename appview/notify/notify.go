package notify

import (
	"context"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// Notifier fans product events out to analytics sinks. Implementations
// must not block the request path on delivery.
type Notifier interface {
	NewSignIn(ctx context.Context, did string)
	UpdateProfile(ctx context.Context, did string)
	NewBanner(ctx context.Context, did string)
	RemoveBanner(ctx context.Context, did string)
	NewStarterPack(ctx context.Context, pack *models.StarterPack)
	DeleteStarterPack(ctx context.Context, did, rkey string)
}

// BaseNotifier is a no-op Notifier; embed it and override the events
// you care about.
type BaseNotifier struct{}

var _ Notifier = &BaseNotifier{}

func (n *BaseNotifier) NewSignIn(ctx context.Context, did string)                  {}
func (n *BaseNotifier) UpdateProfile(ctx context.Context, did string)              {}
func (n *BaseNotifier) NewBanner(ctx context.Context, did string)                  {}
func (n *BaseNotifier) RemoveBanner(ctx context.Context, did string)                 {}
func (n *BaseNotifier) NewStarterPack(ctx context.Context, pack *models.StarterPack) {}
func (n *BaseNotifier) DeleteStarterPack(ctx context.Context, did, rkey string)      {}

type mergedNotifier struct {
	notifiers []Notifier
}

// NewMergedNotifier builds a Notifier that delivers every event to
// each of the given notifiers in order.
func NewMergedNotifier(notifiers ...Notifier) Notifier {
	return &mergedNotifier{notifiers}
}

var _ Notifier = &mergedNotifier{}

func (m *mergedNotifier) NewSignIn(ctx context.Context, did string) {
	for _, n := range m.notifiers {
		n.NewSignIn(ctx, did)
	}
}

func (m *mergedNotifier) UpdateProfile(ctx context.Context, did string) {
	for _, n := range m.notifiers {
		n.UpdateProfile(ctx, did)
	}
}

func (m *mergedNotifier) NewBanner(ctx context.Context, did string) {
	for _, n := range m.notifiers {
		n.NewBanner(ctx, did)
	}
}

func (m *mergedNotifier) RemoveBanner(ctx context.Context, did string) {
	for _, n := range m.notifiers {
		n.RemoveBanner(ctx, did)
	}
}

func (m *mergedNotifier) NewStarterPack(ctx context.Context, pack *models.StarterPack) {
	for _, n := range m.notifiers {
		n.NewStarterPack(ctx, pack)
	}
}

func (m *mergedNotifier) DeleteStarterPack(ctx context.Context, did, rkey string) {
	for _, n := range m.notifiers {
		n.DeleteStarterPack(ctx, did, rkey)
	}
}
