// Package extract turns a rendered page snapshot into domain records.
//
// The browser hands back a typed snapshot (rendered HTML plus the final
// URL) and every extraction strategy runs in-process against it, so the
// strategies can be exercised with plain HTML fixtures.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed snapshot of a rendered page.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// NewDocument parses rawHTML captured from pageURL. Relative links are
// resolved against the page's <base href> when present, else pageURL.
func NewDocument(rawHTML, pageURL string) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract: parse page url: %w", err)
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved, err := base.Parse(strings.TrimSpace(href)); err == nil {
			base = resolved
		}
	}

	return &Document{doc: doc, base: base}, nil
}

// Selection exposes the underlying goquery document root.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// Resolve returns ref as an absolute URL, the way the browser reports
// a.href and img.src. An empty or unparsable ref yields "".
func (d *Document) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := d.base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}

// text mirrors element.textContent.trim().
func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
