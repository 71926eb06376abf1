package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Browser backends supported by the scraper.
const (
	BackendRod        = "rod"
	BackendPlaywright = "playwright"
)

// DefaultUserAgent is sent on search pages to look like a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Browser BrowserConfig
	Scraper ScraperConfig
	Target  TargetConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Cache   CacheConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3000
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls how the shared browser process is launched.
type BrowserConfig struct {
	// Backend selects the automation driver: "rod" (default) or "playwright".
	Backend string

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in containers).
	NoSandbox bool // default: true

	// IgnoreCertErrors makes the browser accept invalid TLS certificates.
	IgnoreCertErrors bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for all browser traffic.
	Proxy string
}

// ScraperConfig controls per-page behaviour.
type ScraperConfig struct {
	// NavigationTimeout bounds navigation + network settling for one page.
	NavigationTimeout time.Duration // default: 30s

	// IdleWindow is how long the network must stay quiet before extraction.
	IdleWindow time.Duration // default: 500ms

	// UserAgent is the browser identification used on search pages.
	UserAgent string

	// Stealth injects anti-automation-detection evasions on search pages.
	Stealth bool // default: true

	// BlockAds blocks requests to well-known ad and tracking hosts.
	BlockAds bool // default: true
}

// TargetConfig describes the listing site. The site's markup is not under
// our control, so every selector can be overridden without a rebuild.
type TargetConfig struct {
	// BaseURL is the site root the search query is appended to.
	BaseURL string // default: "https://online-fix.me/"

	// SearchParam is the query parameter carrying the game name.
	SearchParam string // default: "s"

	// FragmentSelectors match one search result each.
	FragmentSelectors []string

	// TitleSelectors locate the title link inside a fragment, in priority order.
	TitleSelectors []string

	// ImageSelector locates the optional thumbnail inside a fragment.
	ImageSelector string

	// ExtraHosts are additional file-hosting domains treated as download links.
	ExtraHosts []string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	AllowedOrigins []string // default: ["*"]
}

// CacheConfig controls the extraction result cache.
type CacheConfig struct {
	// TTL is how long a result stays fresh. Zero disables caching.
	TTL time.Duration // default: 10m

	// MaxEntries is the maximum number of cached results per operation.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("GAMEGRAB_HOST", "0.0.0.0"),
			Port: envIntOr("GAMEGRAB_PORT", 3000),
			Mode: envOr("GAMEGRAB_MODE", "release"),
		},
		Browser: BrowserConfig{
			Backend:          envOr("GAMEGRAB_BROWSER_BACKEND", BackendRod),
			Headless:         envBoolOr("GAMEGRAB_HEADLESS", true),
			NoSandbox:        envBoolOr("GAMEGRAB_NO_SANDBOX", true),
			IgnoreCertErrors: envBoolOr("GAMEGRAB_IGNORE_CERT_ERRORS", true),
			BrowserBin:       os.Getenv("GAMEGRAB_BROWSER_BIN"),
			Proxy:            os.Getenv("GAMEGRAB_PROXY"),
		},
		Scraper: ScraperConfig{
			NavigationTimeout: envDurationOr("GAMEGRAB_NAV_TIMEOUT", 30*time.Second),
			IdleWindow:        envDurationOr("GAMEGRAB_IDLE_WINDOW", 500*time.Millisecond),
			UserAgent:         envOr("GAMEGRAB_USER_AGENT", DefaultUserAgent),
			Stealth:           envBoolOr("GAMEGRAB_STEALTH", true),
			BlockAds:          envBoolOr("GAMEGRAB_BLOCK_ADS", true),
		},
		Target: TargetConfig{
			BaseURL:     envOr("GAMEGRAB_TARGET_URL", "https://online-fix.me/"),
			SearchParam: envOr("GAMEGRAB_SEARCH_PARAM", "s"),
			FragmentSelectors: envSliceOr("GAMEGRAB_FRAGMENT_SELECTORS", []string{
				"article.post", ".search-item", ".post-item",
			}),
			TitleSelectors: envSliceOr("GAMEGRAB_TITLE_SELECTORS", []string{
				"h2 a", ".entry-title a", ".post-title a",
			}),
			ImageSelector: envOr("GAMEGRAB_IMAGE_SELECTOR", "img"),
			ExtraHosts:    envSliceOr("GAMEGRAB_EXTRA_HOSTS", nil),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("GAMEGRAB_AUTH_ENABLED", false),
			APIKeys: envSliceOr("GAMEGRAB_API_KEYS", nil),
		},
		CORS: CORSConfig{
			AllowedOrigins: envSliceOr("GAMEGRAB_CORS_ORIGINS", []string{"*"}),
		},
		Cache: CacheConfig{
			TTL:        envDurationOr("GAMEGRAB_CACHE_TTL", 10*time.Minute),
			MaxEntries: envIntOr("GAMEGRAB_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("GAMEGRAB_LOG_LEVEL", "info"),
			Format: envOr("GAMEGRAB_LOG_FORMAT", "json"),
		},
	}
}

// Validate reports the first incoherent setting.
func (c *Config) Validate() error {
	switch c.Browser.Backend {
	case BackendRod, BackendPlaywright:
	default:
		return fmt.Errorf("unknown browser backend %q", c.Browser.Backend)
	}
	if c.Scraper.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.Scraper.IdleWindow < 0 {
		return fmt.Errorf("idle window cannot be negative")
	}
	u, err := url.Parse(c.Target.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid target URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("target URL must be absolute http(s): %q", c.Target.BaseURL)
	}
	if c.Target.SearchParam == "" {
		return fmt.Errorf("search parameter cannot be empty")
	}
	if len(c.Target.FragmentSelectors) == 0 || len(c.Target.TitleSelectors) == 0 {
		return fmt.Errorf("fragment and title selectors cannot be empty")
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth enabled but no API keys configured")
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
