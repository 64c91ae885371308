package models

import "time"

// Profile is the actor profile as served by the user's PDS, plus the
// counts from the appview. Basker does not own this data; it is
// fetched per session and mirrored in the cache.
type Profile struct {
	Did         string    `json:"did"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"displayName,omitempty"`
	Description string    `json:"description,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Banner      string    `json:"banner,omitempty"`

	FollowersCount int64     `json:"followersCount"`
	FollowsCount   int64     `json:"followsCount"`
	PostsCount     int64     `json:"postsCount"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}
