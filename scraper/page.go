package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/gamegrab/extract"
	"github.com/use-agent/gamegrab/models"
)

// DefaultNavigationTimeout applies when a Target carries no timeout.
const DefaultNavigationTimeout = 30 * time.Second

// Extractor turns a rendered document into records.
type Extractor[T any] interface {
	Extract(doc *extract.Document) ([]T, error)
}

// Target describes one page visit.
type Target struct {
	URL     string
	Timeout time.Duration
	Page    PageOptions
}

// Scrape opens an isolated page on the shared browser, navigates to
// target.URL, waits for the network to settle and runs ex on the rendered
// document.
//
// Lifecycle:
//
//  1. Acquire session     – lazily launches the browser on first use
//  2. Timeout guard       – bounds page open + navigation + snapshot
//  3. Open page context   – options applied before any navigation
//  4. DEFER: close        – runs on every path; close errors never mask
//     the original error
//  5. Navigate + settle   – network quiet for the idle window
//  6. Snapshot            – rendered HTML + final URL
//  7. Extract             – in-process over the snapshot
//
// A timeout fails this call only; the shared session stays up.
func Scrape[T any](ctx context.Context, sm *SessionManager, target Target, ex Extractor[T]) ([]T, error) {
	// ── 1. Acquire session ────────────────────────────────────────────
	session, err := sm.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	// ── 2. Timeout guard ──────────────────────────────────────────────
	timeout := target.Timeout
	if timeout <= 0 {
		timeout = DefaultNavigationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ── 3. Open page context ──────────────────────────────────────────
	page, err := session.NewPage(ctx, target.Page)
	if err != nil {
		if ctx.Err() != nil {
			return nil, categorizeError(ctx, err, "timed out opening page")
		}
		sm.Discard(session)
		return nil, models.NewScrapeError(models.ErrCodeBrowserUnavailable, "failed to open page", err)
	}
	sm.metrics.PageOpened()

	// ── 4. Guaranteed release ─────────────────────────────────────────
	defer func() {
		if cerr := page.Close(); cerr != nil {
			slog.Debug("page close failed", "url", target.URL, "error", cerr)
		}
		sm.metrics.PageClosed()
	}()

	// ── 5. Navigate and wait for network quiescence ──────────────────
	if err := page.Navigate(ctx, target.URL); err != nil {
		return nil, categorizeError(ctx, err, "navigation to target URL failed")
	}

	// ── 6. Snapshot ───────────────────────────────────────────────────
	snap, err := page.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, categorizeError(ctx, err, "timed out reading page")
		}
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to read rendered page", err)
	}
	pageURL := snap.URL
	if pageURL == "" {
		pageURL = target.URL
	}

	// ── 7. Extract ────────────────────────────────────────────────────
	doc, err := extract.NewDocument(snap.HTML, pageURL)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to parse rendered page", err)
	}
	records, err := runExtractor(ex, doc)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "extraction failed", err)
	}
	return records, nil
}

// runExtractor converts a panicking extractor into an error so that one
// malformed page cannot take the process down.
func runExtractor[T any](ex Extractor[T], doc *extract.Document) (records []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return ex.Extract(doc)
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(ctx context.Context, err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
