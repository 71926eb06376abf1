package scraper

import (
	"net/url"
	"sort"
	"strings"
)

// adDomains are ad, tracking and pop-under hosts blocked when BlockAds is
// enabled. Listing sites for game downloads lean heavily on the last group.
var adDomains = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"adnxs.com":             {},
	"adsrvr.org":            {},
	"amazon-adsystem.com":   {},
	"criteo.com":            {},
	"criteo.net":            {},
	"outbrain.com":          {},
	"taboola.com":           {},
	"moatads.com":           {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"scorecardresearch.com": {},
	"quantserve.com":        {},
	"hotjar.com":            {},
	"media.net":             {},
	"openx.net":             {},
	"casalemedia.com":       {},
	"sharethis.com":         {},
	"addthis.com":           {},
	"yandex.ru":             {},
	"mc.yandex.ru":          {},
	"propellerads.com":      {},
	"popads.net":            {},
	"popcash.net":           {},
	"adsterra.com":          {},
	"exoclick.com":          {},
	"juicyads.com":          {},
	"onclickads.net":        {},
	"hilltopads.net":        {},
}

// isAdDomain checks if a hostname (or any parent domain) is in the ad blocklist.
func isAdDomain(host string) bool {
	host = strings.ToLower(host)
	if _, ok := adDomains[host]; ok {
		return true
	}
	// "pagead2.googlesyndication.com" → "googlesyndication.com"
	for {
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			break
		}
		host = host[idx+1:]
		if _, ok := adDomains[host]; ok {
			return true
		}
	}
	return false
}

// isAdURL reports whether rawURL points at a blocked host.
func isAdURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return isAdDomain(u.Hostname())
}

// blockedURLPatterns renders adDomains as wildcard patterns understood by
// the browser's Network.setBlockedURLs. Both the bare domain and its
// subdomains are covered. The result is sorted for stable output.
func blockedURLPatterns() []string {
	patterns := make([]string, 0, len(adDomains)*2)
	for d := range adDomains {
		patterns = append(patterns, "*://"+d+"/*", "*://*."+d+"/*")
	}
	sort.Strings(patterns)
	return patterns
}
