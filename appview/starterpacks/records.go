package starterpacks

import (
	"context"
	"fmt"
	"time"

	"github.com/bluesky-social/indigo/xrpc"

	"github.com/Baskerbio/Baskermain-sub000/appview/models"
)

// RecordWriter mirrors pack mutations into the owner's repo, so packs
// live on the user's PDS and not only in our database.
type RecordWriter interface {
	PutStarterPack(ctx context.Context, pack *models.StarterPack) error
	DeleteStarterPack(ctx context.Context, rkey string) error
}

// XrpcRecordWriter writes bio.basker.starterPack records through an
// authorized client. The lexicon is ours, so records go over the wire
// as plain JSON rather than generated types.
type XrpcRecordWriter struct {
	client *xrpc.Client
	did    string
}

func NewRecordWriter(client *xrpc.Client, did string) *XrpcRecordWriter {
	return &XrpcRecordWriter{client: client, did: did}
}

func (w *XrpcRecordWriter) PutStarterPack(ctx context.Context, pack *models.StarterPack) error {
	members := make([]map[string]any, len(pack.Members))
	for i, m := range pack.Members {
		members[i] = map[string]any{
			"did":    m.Did,
			"handle": m.Handle,
		}
	}

	record := map[string]any{
		"$type":       models.StarterPackNSID,
		"name":        pack.Name,
		"description": pack.Description,
		"category":    pack.Category,
		"members":     members,
		"createdAt":   pack.Created.Format(time.RFC3339),
	}

	body := map[string]any{
		"repo":       w.did,
		"collection": models.StarterPackNSID,
		"rkey":       pack.Rkey,
		"record":     record,
	}

	err := w.client.Do(ctx, xrpc.Procedure, "application/json", "com.atproto.repo.putRecord", nil, body, nil)
	if err != nil {
		return fmt.Errorf("failed to put %s record: %w", models.StarterPackNSID, err)
	}

	return nil
}

func (w *XrpcRecordWriter) DeleteStarterPack(ctx context.Context, rkey string) error {
	body := map[string]any{
		"repo":       w.did,
		"collection": models.StarterPackNSID,
		"rkey":       rkey,
	}

	err := w.client.Do(ctx, xrpc.Procedure, "application/json", "com.atproto.repo.deleteRecord", nil, body, nil)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", models.StarterPackNSID, err)
	}

	return nil
}
