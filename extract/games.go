package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/gamegrab/models"
)

// lazyImageAttrs are checked, in order, when an <img> has no usable src.
var lazyImageAttrs = []string{"src", "data-src", "data-lazy-src"}

// GameSearch extracts game entries from a search results page.
// It holds only compiled selectors and is safe for concurrent use.
type GameSearch struct {
	fragments cascadia.Selector
	titles    []cascadia.Selector
	image     cascadia.Selector
}

// SearchResult is the outcome of one GameSearch run.
type SearchResult struct {
	Games []models.GameRecord

	// Fragments is how many result fragments matched the known layouts.
	Fragments int

	// Skipped counts fragments dropped for lacking a title link.
	Skipped int
}

// NewGameSearch compiles the selector sets. fragments are alternatives for
// one result block, titles are tried in priority order inside each block.
func NewGameSearch(fragments, titles []string, image string) (*GameSearch, error) {
	if len(fragments) == 0 || len(titles) == 0 {
		return nil, fmt.Errorf("extract: fragment and title selectors are required")
	}

	frag, err := cascadia.Compile(strings.Join(fragments, ", "))
	if err != nil {
		return nil, fmt.Errorf("extract: fragment selectors: %w", err)
	}

	gs := &GameSearch{fragments: frag}
	for _, t := range titles {
		sel, err := cascadia.Compile(t)
		if err != nil {
			return nil, fmt.Errorf("extract: title selector %q: %w", t, err)
		}
		gs.titles = append(gs.titles, sel)
	}

	if image == "" {
		image = "img"
	}
	if gs.image, err = cascadia.Compile(image); err != nil {
		return nil, fmt.Errorf("extract: image selector: %w", err)
	}
	return gs, nil
}

// Extract implements the scraper's extractor contract.
func (gs *GameSearch) Extract(doc *Document) ([]models.GameRecord, error) {
	return gs.Search(doc).Games, nil
}

// Search walks every result fragment in document order.
func (gs *GameSearch) Search(doc *Document) SearchResult {
	var res SearchResult
	doc.Selection().FindMatcher(gs.fragments).Each(func(_ int, s *goquery.Selection) {
		res.Fragments++
		game, ok := gs.fragment(doc, s)
		if !ok {
			res.Skipped++
			return
		}
		res.Games = append(res.Games, game)
	})
	return res
}

// fragment builds the record for one result block. ok is false when no
// title selector yields a link with visible text.
func (gs *GameSearch) fragment(doc *Document, s *goquery.Selection) (models.GameRecord, bool) {
	var title *goquery.Selection
	var name string
	for _, sel := range gs.titles {
		m := s.FindMatcher(sel).First()
		if m.Length() == 0 {
			continue
		}
		if name = text(m); name != "" {
			title = m
			break
		}
	}
	if title == nil {
		return models.GameRecord{}, false
	}

	href, _ := title.Attr("href")
	return models.GameRecord{
		Title: name,
		Link:  doc.Resolve(href),
		Image: gs.imageURL(doc, s),
	}, true
}

func (gs *GameSearch) imageURL(doc *Document, s *goquery.Selection) string {
	img := s.FindMatcher(gs.image).First()
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range lazyImageAttrs {
		v, _ := img.Attr(attr)
		if v = strings.TrimSpace(v); v == "" || strings.HasPrefix(v, "data:") {
			continue
		}
		return doc.Resolve(v)
	}
	return ""
}
