package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type CoreConfig struct {
	CookieSecret string `env:"COOKIE_SECRET, default=00000000000000000000000000000000"`
	DbPath       string `env:"DB_PATH, default=appview.db"`
	ListenAddr   string `env:"LISTEN_ADDR, default=0.0.0.0:3000"`
	AppviewHost  string `env:"APPVIEW_HOST, default=https://basker.bio"`
	PlcUrl       string `env:"PLC_URL, default=https://plc.directory"`
	Dev          bool   `env:"DEV, default=false"`
}

type TenorConfig struct {
	ApiKey   string `env:"API_KEY"`
	Endpoint string `env:"ENDPOINT, default=https://tenor.googleapis.com/v2"`
	Limit    int    `env:"LIMIT, default=24"`
}

type BskyConfig struct {
	Endpoint    string `env:"ENDPOINT, default=https://public.api.bsky.app"`
	SearchLimit int64  `env:"SEARCH_LIMIT, default=10"`
}

type BannerConfig struct {
	// grace period between the profile write and cache invalidation,
	// so downstream PDS caches have a chance to catch up
	PropagationDelay time.Duration `env:"PROPAGATION_DELAY, default=500ms"`
}

type StarterPackConfig struct {
	// well-known accounts whose packs seed the browse page
	Sources []string `env:"SOURCES, default=basker.bio,samthibault.bsky.social"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL, default=15m"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR, default=localhost:6379"`
	Password string `env:"PASS"`
	DB       int    `env:"DB, default=0"`
}

type PosthogConfig struct {
	ApiKey   string `env:"API_KEY"`
	Endpoint string `env:"ENDPOINT, default=https://eu.i.posthog.com"`
}

func (cfg RedisConfig) ToURL() string {
	u := &url.URL{
		Scheme: "redis",
		Host:   cfg.Addr,
		Path:   fmt.Sprintf("/%d", cfg.DB),
	}

	if cfg.Password != "" {
		u.User = url.UserPassword("", cfg.Password)
	}

	return u.String()
}

type Config struct {
	Core         CoreConfig        `env:",prefix=BASKER_"`
	Tenor        TenorConfig       `env:",prefix=BASKER_TENOR_"`
	Bsky         BskyConfig        `env:",prefix=BASKER_BSKY_"`
	Banner       BannerConfig      `env:",prefix=BASKER_BANNER_"`
	StarterPacks StarterPackConfig `env:",prefix=BASKER_STARTER_PACK_"`
	Redis        RedisConfig       `env:",prefix=BASKER_REDIS_"`
	Posthog      PosthogConfig     `env:",prefix=BASKER_POSTHOG_"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	err := envconfig.Process(ctx, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
