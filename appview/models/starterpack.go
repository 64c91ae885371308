package models

import (
	"fmt"
	"time"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

const StarterPackNSID = "bio.basker.starterPack"

// MaxPacksPerUser caps how many packs a single DID may own.
const MaxPacksPerUser = 6

// CategoryAll short-circuits category filtering.
const CategoryAll = "all"

type StarterPack struct {
	// ids
	ID   int64  `json:"-"`
	Did  string `json:"did"`
	Rkey string `json:"rkey"`

	// content
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category"`
	Members     []StarterPackMember `json:"members"`

	// meta
	CreatorHandle string     `json:"creatorHandle,omitempty"`
	Created       time.Time  `json:"createdAt"`
	Edited        *time.Time `json:"updatedAt,omitempty"`
}

func (s *StarterPack) AtUri() syntax.ATURI {
	return syntax.ATURI(fmt.Sprintf("at://%s/%s/%s", s.Did, StarterPackNSID, s.Rkey))
}

type StarterPackMember struct {
	Did         string    `json:"did"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"displayName,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Added       time.Time `json:"addedAt,omitzero"`
}
