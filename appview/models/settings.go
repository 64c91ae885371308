package models

import "time"

// MaxBannerSize is the upper bound on banner uploads, before
// data-url encoding.
const MaxBannerSize = 10 << 20

const (
	DefaultScale    = 100
	DefaultPosition = 50
	DefaultRotation = 0
)

// BannerAdjustment is the crop/zoom/rotation applied to the custom
// banner. Last write wins; no history is kept.
type BannerAdjustment struct {
	Scale     int `json:"scale"`
	PositionX int `json:"positionX"`
	PositionY int `json:"positionY"`
	Rotation  int `json:"rotation"`
}

func DefaultAdjustment() BannerAdjustment {
	return BannerAdjustment{
		Scale:     DefaultScale,
		PositionX: DefaultPosition,
		PositionY: DefaultPosition,
		Rotation:  DefaultRotation,
	}
}

// Clamp forces every field into its legal range. Out-of-range values
// are pinned rather than rejected, matching the slider bounds on the
// editing surface.
func (b BannerAdjustment) Clamp() BannerAdjustment {
	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	return BannerAdjustment{
		Scale:     clamp(b.Scale, 25, 300),
		PositionX: clamp(b.PositionX, 0, 100),
		PositionY: clamp(b.PositionY, 0, 100),
		Rotation:  clamp(b.Rotation, -180, 180),
	}
}

type Settings struct {
	Did string `json:"did"`

	CustomBanner     string           `json:"customBanner,omitempty"`
	BannerAdjustment BannerAdjustment `json:"bannerAdjustment"`

	Theme         string `json:"theme,omitempty"`
	CompactLayout bool   `json:"compactLayout"`

	Created time.Time  `json:"created,omitzero"`
	Edited  *time.Time `json:"edited,omitempty"`
}

// DefaultSettings is what a user gets before their first save.
func DefaultSettings(did string) Settings {
	return Settings{
		Did:              did,
		BannerAdjustment: DefaultAdjustment(),
	}
}
