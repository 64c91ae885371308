package posthog

import (
	"context"
	"log"

	"github.com/posthog/posthog-go"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
	"github.com/Baskerbio/Baskermain-sub000/appview/notify"
)

type posthogNotifier struct {
	client posthog.Client
	notify.BaseNotifier
}

func NewPosthogNotifier(client posthog.Client) notify.Notifier {
	return &posthogNotifier{
		client,
		notify.BaseNotifier{},
	}
}

var _ notify.Notifier = &posthogNotifier{}

func (n *posthogNotifier) NewSignIn(ctx context.Context, did string) {
	err := n.client.Enqueue(posthog.Capture{
		DistinctId: did,
		Event:      "sign_in",
	})
	if err != nil {
		log.Println("failed to enqueue posthog event:", err)
	}
}

func (n *posthogNotifier) UpdateProfile(ctx context.Context, did string) {
	err := n.client.Enqueue(posthog.Capture{
		DistinctId: did,
		Event:      "update_profile",
	})
	if err != nil {
		log.Println("failed to enqueue posthog event:", err)
	}
}

func (n *posthogNotifier) NewBanner(ctx context.Context, did string) {
	err := n.client.Enqueue(posthog.Capture{
		DistinctId: did,
		Event:      "new_banner",
	})
	if err != nil {
		log.Println("failed to enqueue posthog event:", err)
	}
}

func (n *posthogNotifier) RemoveBanner(ctx context.Context, did string) {
	err := n.client.Enqueue(posthog.Capture{
		DistinctId: did,
		Event:      "remove_banner",
	})
	if err != nil {
		log.Println("failed to enqueue posthog event:", err)
	}
}

func (n *posthogNotifier) NewStarterPack(ctx context.Context, pack *models.StarterPack) {
	err := n.client.Enqueue(posthog.Capture{
		DistinctId: pack.Did,
		Event:      "new_starter_pack",
		Properties: posthog.Properties{
			"pack_at":  pack.AtUri().String(),
			"category": pack.Category,
			"members":  len(pack.Members),
		},
	})
	if err != nil {
		log.Println("failed to enqueue posthog event:", err)
	}
}

func (n *posthogNotifier) DeleteStarterPack(ctx context.Context, did, rkey string) {
	err := n.client.Enqueue(posthog.Capture{
		DistinctId: did,
		Event:      "delete_starter_pack",
		Properties: posthog.Properties{"rkey": rkey},
	})
	if err != nil {
		log.Println("failed to enqueue posthog event:", err)
	}
}
