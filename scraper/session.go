package scraper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/gamegrab/metrics"
	"github.com/use-agent/gamegrab/models"
	"golang.org/x/sync/singleflight"
)

// launchTimeout bounds a single browser start. The launch is shared by
// every request waiting on it, so it is not tied to any request context.
const launchTimeout = 60 * time.Second

// errShutdown is returned by Acquire once the manager has been shut down.
var errShutdown = errors.New("browser session manager is shut down")

// Launcher starts a browser process.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one running browser process shared by all requests.
type Session interface {
	// NewPage opens an isolated browsing context (own cookies, storage and
	// navigation state) with a single page in it.
	NewPage(ctx context.Context, opts PageOptions) (PageContext, error)

	// Close terminates the browser process.
	Close() error
}

// PageOptions are applied to a page before it navigates anywhere.
type PageOptions struct {
	UserAgent  string
	Stealth    bool
	BlockAds   bool
	IdleWindow time.Duration
}

// PageContext is a per-request page. It is owned by exactly one Scrape call
// and closed before that call returns.
type PageContext interface {
	// Navigate loads url and returns once the network has been quiet for
	// the idle window, or when ctx ends.
	Navigate(ctx context.Context, url string) error

	// Snapshot returns the rendered document as it is now.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Close releases the page and its browsing context.
	Close() error
}

// Snapshot is the typed result of reading a rendered page.
type Snapshot struct {
	HTML string
	URL  string
}

// SessionManager owns the single browser session of the process. The
// browser is launched on first use; concurrent first callers share one
// launch. It is safe for concurrent use.
type SessionManager struct {
	launcher Launcher
	metrics  *metrics.Metrics

	group singleflight.Group

	mu      sync.RWMutex
	session Session
	closed  bool
}

// NewSessionManager creates a manager. No browser is started until Acquire.
func NewSessionManager(l Launcher, m *metrics.Metrics) *SessionManager {
	return &SessionManager{launcher: l, metrics: m}
}

// Acquire returns the running session, launching it if needed. A failed
// launch is not remembered, so the next call tries again.
func (m *SessionManager) Acquire(ctx context.Context) (Session, error) {
	m.mu.RLock()
	s, closed := m.session, m.closed
	m.mu.RUnlock()

	if closed {
		return nil, models.NewScrapeError(models.ErrCodeBrowserUnavailable, "browser is shutting down", errShutdown)
	}
	if s != nil {
		return s, nil
	}

	ch := m.group.DoChan("browser", func() (any, error) {
		return m.launch()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Session), nil
	case <-ctx.Done():
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserUnavailable,
			"gave up waiting for browser launch",
			ctx.Err(),
		)
	}
}

// launch runs inside the singleflight group.
func (m *SessionManager) launch() (Session, error) {
	m.mu.RLock()
	s, closed := m.session, m.closed
	m.mu.RUnlock()
	if closed {
		return nil, models.NewScrapeError(models.ErrCodeBrowserUnavailable, "browser is shutting down", errShutdown)
	}
	if s != nil {
		return s, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), launchTimeout)
	defer cancel()

	start := time.Now()
	s, err := m.launcher.Launch(ctx)
	if err != nil {
		slog.Error("browser launch failed", "error", err)
		return nil, models.NewScrapeError(models.ErrCodeBrowserUnavailable, "failed to launch browser", err)
	}
	m.metrics.IncLaunch()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		// Shutdown won the race; do not leak the process.
		if cerr := s.Close(); cerr != nil {
			slog.Warn("closing browser launched during shutdown failed", "error", cerr)
		}
		return nil, models.NewScrapeError(models.ErrCodeBrowserUnavailable, "browser is shutting down", errShutdown)
	}
	m.session = s
	m.mu.Unlock()

	slog.Info("browser session started", "elapsed", time.Since(start).Round(time.Millisecond).String())
	return s, nil
}

// Discard forgets s and closes it if it is still the current session. It is
// used when the browser stops accepting new pages, so the next Acquire
// launches a fresh one.
func (m *SessionManager) Discard(s Session) {
	m.mu.Lock()
	if m.session == nil || m.session != s {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.mu.Unlock()

	slog.Warn("discarding unhealthy browser session")
	if err := s.Close(); err != nil {
		slog.Debug("closing discarded browser failed", "error", err)
	}
}

// Running reports whether a browser session is currently up.
func (m *SessionManager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil
}

// Shutdown closes the browser if it is running. It is idempotent; after it
// returns, Acquire fails and a launch still in flight closes its result.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	s := m.session
	m.session = nil
	m.mu.Unlock()

	if s == nil {
		return nil
	}
	slog.Info("closing browser session")
	return s.Close()
}
