package extract

import (
	"strings"

	"github.com/use-agent/gamegrab/models"
)

// hostRule maps a file-hosting domain (and its subdomains) to a host type.
type hostRule struct {
	domain string
	kind   models.HostType
}

// providerHosts is checked in order; provider-specific types come before
// the generic hosts so the first match is the most specific one.
var providerHosts = []hostRule{
	{"mega.nz", models.HostMega},
	{"mega.co.nz", models.HostMega},
	{"mega.io", models.HostMega},
	{"mediafire.com", models.HostMediafire},
	{"1fichier.com", models.HostDirect},
	{"uploadhaven.com", models.HostDirect},
	{"gofile.io", models.HostDirect},
}

// downloadTerms mark an anchor as a download link by its text
// (English and Portuguese).
var downloadTerms = []string{"download", "baixar"}

// hostMatches reports whether host is domain or one of its subdomains.
func hostMatches(host, domain string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// classify returns the host type for host and whether host belongs to a
// known provider at all.
func classify(rules []hostRule, host string) (models.HostType, bool) {
	for _, r := range rules {
		if hostMatches(host, r.domain) {
			return r.kind, true
		}
	}
	return models.HostDirect, false
}

// hasDownloadTerm matches the visible link text case-insensitively.
func hasDownloadTerm(s string) bool {
	s = strings.ToLower(s)
	for _, term := range downloadTerms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
