package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Browser.Backend != BackendRod {
		t.Errorf("backend = %q, want %q", cfg.Browser.Backend, BackendRod)
	}
	if !cfg.Browser.Headless || !cfg.Browser.NoSandbox || !cfg.Browser.IgnoreCertErrors {
		t.Errorf("browser flags = %+v, want headless, no-sandbox and ignore-cert-errors", cfg.Browser)
	}
	if cfg.Scraper.NavigationTimeout != 30*time.Second {
		t.Errorf("navigation timeout = %v, want 30s", cfg.Scraper.NavigationTimeout)
	}
	if got := len(cfg.Target.TitleSelectors); got != 3 {
		t.Errorf("title selectors = %d, want 3", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GAMEGRAB_PORT", "9090")
	t.Setenv("GAMEGRAB_NAV_TIMEOUT", "5s")
	t.Setenv("GAMEGRAB_FRAGMENT_SELECTORS", " div.card , li.result ,")
	t.Setenv("GAMEGRAB_BROWSER_BACKEND", "playwright")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scraper.NavigationTimeout != 5*time.Second {
		t.Errorf("navigation timeout = %v, want 5s", cfg.Scraper.NavigationTimeout)
	}
	want := []string{"div.card", "li.result"}
	if len(cfg.Target.FragmentSelectors) != len(want) {
		t.Fatalf("fragment selectors = %v, want %v", cfg.Target.FragmentSelectors, want)
	}
	for i := range want {
		if cfg.Target.FragmentSelectors[i] != want[i] {
			t.Errorf("fragment selector %d = %q, want %q", i, cfg.Target.FragmentSelectors[i], want[i])
		}
	}
	if cfg.Browser.Backend != BackendPlaywright {
		t.Errorf("backend = %q, want playwright", cfg.Browser.Backend)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("GAMEGRAB_PORT", "not-a-number")
	t.Setenv("GAMEGRAB_HEADLESS", "maybe")

	cfg := Load()

	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want fallback 3000", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("headless should fall back to true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Browser.Backend = "selenium" }, true},
		{"zero timeout", func(c *Config) { c.Scraper.NavigationTimeout = 0 }, true},
		{"relative target", func(c *Config) { c.Target.BaseURL = "/search" }, true},
		{"ftp target", func(c *Config) { c.Target.BaseURL = "ftp://example.com" }, true},
		{"no search param", func(c *Config) { c.Target.SearchParam = "" }, true},
		{"no title selectors", func(c *Config) { c.Target.TitleSelectors = nil }, true},
		{"auth without keys", func(c *Config) { c.Auth.Enabled = true }, true},
		{"auth with keys", func(c *Config) {
			c.Auth.Enabled = true
			c.Auth.APIKeys = []string{"k"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
