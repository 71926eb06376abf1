package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/gamegrab/cache"
	"github.com/use-agent/gamegrab/config"
	"github.com/use-agent/gamegrab/extract"
	"github.com/use-agent/gamegrab/metrics"
	"github.com/use-agent/gamegrab/models"
)

// Operation names used in logs, metrics and cache keys.
const (
	OpSearchGame    = "search_game"
	OpDownloadLinks = "download_links"
)

// Scraper runs the two site operations on top of a shared browser session.
// It is safe for concurrent use.
type Scraper struct {
	sessions *SessionManager
	metrics  *metrics.Metrics

	scraperCfg config.ScraperConfig
	targetCfg  config.TargetConfig

	games *extract.GameSearch
	links *extract.DownloadLinks

	gameCache *cache.Cache[[]models.GameRecord]
	linkCache *cache.Cache[[]models.DownloadLinkRecord]
}

// New compiles the configured selectors and prepares the result caches.
func New(sm *SessionManager, cfg *config.Config, m *metrics.Metrics) (*Scraper, error) {
	games, err := extract.NewGameSearch(
		cfg.Target.FragmentSelectors,
		cfg.Target.TitleSelectors,
		cfg.Target.ImageSelector,
	)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		sessions:   sm,
		metrics:    m,
		scraperCfg: cfg.Scraper,
		targetCfg:  cfg.Target,
		games:      games,
		links:      extract.NewDownloadLinks(cfg.Target.ExtraHosts),
		gameCache:  cache.New[[]models.GameRecord](cfg.Cache.MaxEntries, cfg.Cache.TTL),
		linkCache:  cache.New[[]models.DownloadLinkRecord](cfg.Cache.MaxEntries, cfg.Cache.TTL),
	}, nil
}

// Sessions exposes the session manager for health reporting.
func (s *Scraper) Sessions() *SessionManager {
	return s.sessions
}

// SearchURL builds the listing site's search URL for a game name.
func (s *Scraper) SearchURL(gameName string) string {
	base := s.targetCfg.BaseURL
	// A bare origin gets its root path; an explicit path is kept as is.
	if u, err := url.Parse(base); err == nil && u.Path == "" && u.RawQuery == "" && !strings.Contains(base, "?") {
		base += "/"
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + url.QueryEscape(s.targetCfg.SearchParam) + "=" + encodeQueryComponent(gameName)
}

// encodeQueryComponent percent-encodes s with spaces as %20 rather than "+".
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SearchGames searches the listing site and returns the games found.
// An empty result is a NOT_FOUND error.
func (s *Scraper) SearchGames(ctx context.Context, gameName string) ([]models.GameRecord, error) {
	gameName = strings.TrimSpace(gameName)
	if gameName == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "Game name is required", nil)
	}

	key := cache.Key(OpSearchGame, strings.ToLower(gameName))
	if games, ok := s.gameCache.Get(key); ok {
		s.metrics.IncCacheHit(OpSearchGame)
		return games, nil
	}

	target := Target{
		URL:     s.SearchURL(gameName),
		Timeout: s.scraperCfg.NavigationTimeout,
		Page: PageOptions{
			UserAgent:  s.scraperCfg.UserAgent,
			Stealth:    s.scraperCfg.Stealth,
			BlockAds:   s.scraperCfg.BlockAds,
			IdleWindow: s.scraperCfg.IdleWindow,
		},
	}

	start := time.Now()
	var result extract.SearchResult
	_, err := Scrape[models.GameRecord](ctx, s.sessions, target, searchRecorder{gs: s.games, out: &result})
	games := result.Games
	if err == nil && len(games) == 0 {
		if result.Fragments == 0 {
			slog.Warn("search page matched no result fragments; site layout may have changed",
				"gameName", gameName,
				"url", target.URL,
			)
		}
		err = models.NewScrapeError(models.ErrCodeNotFound, "No games found", nil)
	}
	s.observe(OpSearchGame, start, err)
	if err != nil {
		return nil, err
	}

	slog.Info("game search complete",
		"gameName", gameName,
		"games", len(games),
		"skipped", result.Skipped,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	s.gameCache.Set(key, games)
	return games, nil
}

// DownloadLinks collects the download links on a game page.
// An empty result is a NOT_FOUND error.
func (s *Scraper) DownloadLinks(ctx context.Context, gameURL string) ([]models.DownloadLinkRecord, error) {
	gameURL = strings.TrimSpace(gameURL)
	if err := validateGameURL(gameURL); err != nil {
		return nil, err
	}

	key := cache.Key(OpDownloadLinks, gameURL)
	if links, ok := s.linkCache.Get(key); ok {
		s.metrics.IncCacheHit(OpDownloadLinks)
		return links, nil
	}

	// The game page is visited with the browser's own identity; only the
	// search page needs the desktop user agent and stealth script.
	target := Target{
		URL:     gameURL,
		Timeout: s.scraperCfg.NavigationTimeout,
		Page: PageOptions{
			BlockAds:   s.scraperCfg.BlockAds,
			IdleWindow: s.scraperCfg.IdleWindow,
		},
	}

	start := time.Now()
	links, err := Scrape[models.DownloadLinkRecord](ctx, s.sessions, target, s.links)
	if err == nil && len(links) == 0 {
		err = models.NewScrapeError(models.ErrCodeNotFound, "No download links found", nil)
	}
	s.observe(OpDownloadLinks, start, err)
	if err != nil {
		return nil, err
	}

	slog.Info("download link extraction complete",
		"gameUrl", gameURL,
		"links", len(links),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	s.linkCache.Set(key, links)
	return links, nil
}

func (s *Scraper) observe(operation string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	var se *models.ScrapeError
	switch {
	case err == nil:
	case errors.As(err, &se) && se.Code == models.ErrCodeNotFound:
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
	}
	s.metrics.ObserveScrape(operation, outcome, time.Since(start))
}

func validateGameURL(raw string) error {
	if raw == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "Game URL is required", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "Game URL is not a valid URL", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("Game URL must be an absolute http(s) URL, got %q", raw), nil)
	}
	return nil
}

// searchRecorder adapts GameSearch to Extractor while keeping the fragment
// statistics for the layout-mismatch warning.
type searchRecorder struct {
	gs  *extract.GameSearch
	out *extract.SearchResult
}

func (r searchRecorder) Extract(doc *extract.Document) ([]models.GameRecord, error) {
	*r.out = r.gs.Search(doc)
	return r.out.Games, nil
}
