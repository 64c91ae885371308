package auth

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"

	"github.com/Baskerbio/Baskermain-sub000/appview/dataurl"
	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

const actorProfileNSID = "app.bsky.actor.profile"

// GetProfile fetches the hydrated profile view for the session's DID.
func (a *Auth) GetProfile(r *http.Request) (*models.Profile, error) {
	sess, err := a.ResumeSession(r)
	if err != nil {
		return nil, err
	}

	client, err := a.AuthorizedClient(r)
	if err != nil {
		return nil, err
	}

	view, err := appbsky.ActorGetProfile(r.Context(), client, sess.Did)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	profile := &models.Profile{
		Did:    view.Did,
		Handle: view.Handle,
	}
	if view.DisplayName != nil {
		profile.DisplayName = *view.DisplayName
	}
	if view.Description != nil {
		profile.Description = *view.Description
	}
	if view.Avatar != nil {
		profile.Avatar = *view.Avatar
	}
	if view.Banner != nil {
		profile.Banner = *view.Banner
	}
	if view.FollowersCount != nil {
		profile.FollowersCount = *view.FollowersCount
	}
	if view.FollowsCount != nil {
		profile.FollowsCount = *view.FollowsCount
	}
	if view.PostsCount != nil {
		profile.PostsCount = *view.PostsCount
	}
	if view.CreatedAt != nil {
		if t, err := time.Parse(time.RFC3339, *view.CreatedAt); err == nil {
			profile.CreatedAt = t
		}
	}

	return profile, nil
}

// ProfileWriter mutates the actor profile record on the session's
// own PDS. Request-scoped; build one per mutation.
type ProfileWriter struct {
	client *xrpc.Client
	did    string
}

func (a *Auth) ProfileWriter(r *http.Request) (*ProfileWriter, error) {
	client, err := a.AuthorizedClient(r)
	if err != nil {
		return nil, err
	}

	return &ProfileWriter{
		client: client,
		did:    client.Auth.Did,
	}, nil
}

func (pw *ProfileWriter) Did() string {
	return pw.did
}

// SetBanner uploads the image (a base64 data url) as a blob and swaps
// it into the profile record. An empty image clears the banner.
func (pw *ProfileWriter) SetBanner(ctx context.Context, image string) error {
	record, swap, err := pw.currentRecord(ctx)
	if err != nil {
		return err
	}

	if image == "" {
		record.Banner = nil
	} else {
		mimeType, data, err := dataurl.Decode(image)
		if err != nil {
			return fmt.Errorf("banner is not a data url: %w", err)
		}

		pw.client.Headers = map[string]string{"Content-Type": mimeType}
		blob, err := comatproto.RepoUploadBlob(ctx, pw.client, bytes.NewReader(data))
		pw.client.Headers = nil
		if err != nil {
			return fmt.Errorf("failed to upload banner blob: %w", err)
		}

		record.Banner = blob.Blob
	}

	return pw.putRecord(ctx, record, swap)
}

// SetDetails updates display name and description in place.
func (pw *ProfileWriter) SetDetails(ctx context.Context, displayName, description string) error {
	record, swap, err := pw.currentRecord(ctx)
	if err != nil {
		return err
	}

	record.DisplayName = &displayName
	record.Description = &description

	return pw.putRecord(ctx, record, swap)
}

func (pw *ProfileWriter) currentRecord(ctx context.Context) (*appbsky.ActorProfile, *string, error) {
	resp, err := comatproto.RepoGetRecord(ctx, pw.client, "", actorProfileNSID, pw.did, "self")
	if err != nil {
		// a brand new account may not have a profile record yet
		createdAt := time.Now().Format(time.RFC3339)
		return &appbsky.ActorProfile{CreatedAt: &createdAt}, nil, nil
	}

	record, ok := resp.Value.Val.(*appbsky.ActorProfile)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected record type for %s", actorProfileNSID)
	}

	return record, resp.Cid, nil
}

func (pw *ProfileWriter) putRecord(ctx context.Context, record *appbsky.ActorProfile, swap *string) error {
	_, err := comatproto.RepoPutRecord(ctx, pw.client, &comatproto.RepoPutRecord_Input{
		Collection: actorProfileNSID,
		Repo:       pw.did,
		Rkey:       "self",
		SwapRecord: swap,
		Record:     &lexutil.LexiconTypeDecoder{Val: record},
	})
	if err != nil {
		return fmt.Errorf("failed to write profile record: %w", err)
	}

	return nil
}
