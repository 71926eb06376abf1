package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/gamegrab/models"
)

// DownloadLinks extracts outbound download links from a game detail page.
type DownloadLinks struct {
	rules []hostRule
}

// NewDownloadLinks builds the extractor. extraHosts are additional
// provider domains classified as "direct".
func NewDownloadLinks(extraHosts []string) *DownloadLinks {
	rules := make([]hostRule, 0, len(providerHosts)+len(extraHosts))
	rules = append(rules, providerHosts...)
	for _, h := range extraHosts {
		h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "www.")
		if h != "" {
			rules = append(rules, hostRule{domain: h, kind: models.HostDirect})
		}
	}
	return &DownloadLinks{rules: rules}
}

// Extract scans every anchor and returns the qualifying links, unique by
// URL, in order of first appearance. Provider hosts are only matched on
// http(s) links; an anchor labelled as a download qualifies whatever its
// scheme, except javascript: handlers.
func (dl *DownloadLinks) Extract(doc *Document) ([]models.DownloadLinkRecord, error) {
	var links []models.DownloadLinkRecord
	seen := make(map[string]struct{})

	doc.Selection().Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link := doc.Resolve(href)
		if link == "" {
			return
		}
		u, err := url.Parse(link)
		if err != nil || u.Scheme == "javascript" {
			return
		}

		label := text(s)
		kind, known := models.HostDirect, false
		if u.Scheme == "http" || u.Scheme == "https" {
			kind, known = classify(dl.rules, u.Hostname())
		}
		if !known && !hasDownloadTerm(label) {
			return
		}

		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}

		links = append(links, models.DownloadLinkRecord{
			Link:     link,
			Text:     label,
			HostType: kind,
		})
	})

	return links, nil
}
