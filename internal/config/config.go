package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "musicwave"

type Config struct {
	// Canonical catalog: track metadata, browse and search
	Canonical CatalogConfig `koanf:"canonical"`

	// Alternate catalog: full-length stream lookup
	Alternate CatalogConfig `koanf:"alternate"`

	Resolver ResolverConfig `koanf:"resolver"`
	Cache    CacheConfig    `koanf:"cache"`
	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`
	UI       UIConfig       `koanf:"ui"`

	// Last.fm scrobbling (optional)
	Lastfm LastfmConfig `koanf:"lastfm"`
}

// CatalogConfig holds catalog API settings.
type CatalogConfig struct {
	BaseURL   string  `koanf:"base_url"`   // empty selects the client's default
	RateLimit float64 `koanf:"rate_limit"` // requests per second (default: client's)
}

// ResolverConfig tunes stream resolution.
type ResolverConfig struct {
	SearchTimeout      time.Duration `koanf:"search_timeout"`      // e.g. "5s" (default: 5s)
	ProbeTimeout       time.Duration `koanf:"probe_timeout"`       // e.g. "3s" (default: 3s)
	PreferredContainer string        `koanf:"preferred_container"` // default: "mp4"
	Qualities          []string      `koanf:"qualities"`           // best to worst
}

// CacheConfig holds catalog cache settings.
type CacheConfig struct {
	Enabled       *bool  `koanf:"enabled"`        // default: true
	Path          string `koanf:"path"`           // default: XDG cache dir
	TTLHours      int    `koanf:"ttl_hours"`      // default: 24
	MemoryEntries int    `koanf:"memory_entries"` // default: 256
}

// PlaybackConfig holds initial output settings.
type PlaybackConfig struct {
	Volume *float64 `koanf:"volume"` // 0.0-1.0 (default: 1.0)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // default: XDG state dir
}

// UIConfig holds terminal front-end settings.
type UIConfig struct {
	Icons         string `koanf:"icons"`         // nerd, unicode, none (default: nerd)
	PlayerView    string `koanf:"player_view"`   // compact, expanded (default: compact)
	Notifications *bool  `koanf:"notifications"` // desktop notifications (default: true)
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"` // default: the key saved by "lastfm auth"
}

// Load reads the user config file, then ./config.toml, then any extra
// files; later files win.
func Load(extra ...string) (*Config, error) {
	return LoadFrom(append(getConfigPaths(), extra...)...)
}

// LoadFrom reads the given TOML files in order, skipping missing ones.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Canonical.BaseURL = strings.TrimSuffix(cfg.Canonical.BaseURL, "/")
	cfg.Alternate.BaseURL = strings.TrimSuffix(cfg.Alternate.BaseURL, "/")
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/musicwave/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetResolverConfig returns the resolver configuration with defaults applied.
func (c *Config) GetResolverConfig() ResolverConfig {
	cfg := c.Resolver

	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 5 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 3 * time.Second
	}
	if cfg.PreferredContainer == "" {
		cfg.PreferredContainer = "mp4"
	}
	cfg.PreferredContainer = strings.TrimPrefix(strings.ToLower(cfg.PreferredContainer), ".")

	return cfg
}

// GetCacheConfig returns the cache configuration with defaults applied.
func (c *Config) GetCacheConfig() CacheConfig {
	cfg := c.Cache

	if cfg.Enabled == nil {
		enabled := true
		cfg.Enabled = &enabled
	}
	if cfg.TTLHours <= 0 {
		cfg.TTLHours = 24
	}
	if cfg.MemoryEntries <= 0 {
		cfg.MemoryEntries = 256
	}

	return cfg
}

// CacheEnabled returns true unless the catalog cache is disabled.
func (c *Config) CacheEnabled() bool {
	return *c.GetCacheConfig().Enabled
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// InitialVolume returns the configured volume clamped to [0, 1].
func (c *Config) InitialVolume() float64 {
	if c.Playback.Volume == nil {
		return 1
	}
	return min(max(*c.Playback.Volume, 0), 1)
}

// LogLevel returns the configured log level, defaulting to info.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Log.Level)
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// IconStyle returns the configured icon set, defaulting to nerd.
func (c *Config) IconStyle() string {
	switch s := strings.ToLower(c.UI.Icons); s {
	case "unicode", "none":
		return s
	default:
		return "nerd"
	}
}

// ExpandedPlayer returns true if the player bar starts in expanded mode.
func (c *Config) ExpandedPlayer() bool {
	return strings.EqualFold(c.UI.PlayerView, "expanded")
}

// NotificationsEnabled returns true unless desktop notifications are
// disabled.
func (c *Config) NotificationsEnabled() bool {
	return c.UI.Notifications == nil || *c.UI.Notifications
}
