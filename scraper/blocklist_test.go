package scraper

import (
	"slices"
	"testing"
)

func TestIsAdDomain(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"doubleclick.net", true},
		{"pagead2.googlesyndication.com", true},
		{"STATS.G.DOUBLECLICK.NET", true},
		{"online-fix.me", false},
		{"mega.nz", false},
		{"notdoubleclick.net", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAdDomain(tt.host); got != tt.want {
			t.Errorf("isAdDomain(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestIsAdURL(t *testing.T) {
	if !isAdURL("https://www.googletagmanager.com/gtm.js?id=X") {
		t.Error("tag manager script should be blocked")
	}
	if isAdURL("https://online-fix.me/games/") {
		t.Error("target site should not be blocked")
	}
	if isAdURL("://bad") {
		t.Error("unparsable URL should not be blocked")
	}
}

func TestBlockedURLPatterns(t *testing.T) {
	patterns := blockedURLPatterns()
	if len(patterns) != len(adDomains)*2 {
		t.Fatalf("got %d patterns, want %d", len(patterns), len(adDomains)*2)
	}
	if !slices.IsSorted(patterns) {
		t.Error("patterns should be sorted")
	}
	for _, want := range []string{"*://doubleclick.net/*", "*://*.doubleclick.net/*"} {
		if !slices.Contains(patterns, want) {
			t.Errorf("missing pattern %q", want)
		}
	}
}
