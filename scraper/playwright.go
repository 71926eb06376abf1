package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/stealth"
	"github.com/playwright-community/playwright-go"
	"github.com/use-agent/gamegrab/config"
)

// PlaywrightLauncher starts Chromium through playwright-go. It is the
// alternative backend for hosts where the Playwright driver is already
// installed.
type PlaywrightLauncher struct {
	cfg config.BrowserConfig
}

// NewPlaywrightLauncher creates a launcher for the given browser settings.
func NewPlaywrightLauncher(cfg config.BrowserConfig) *PlaywrightLauncher {
	return &PlaywrightLauncher{cfg: cfg}
}

// Launch starts the Playwright driver and a Chromium instance.
func (l *PlaywrightLauncher) Launch(ctx context.Context) (Session, error) {
	type launched struct {
		session *playwrightSession
		err     error
	}
	done := make(chan launched, 1)

	go func() {
		s, err := l.launch()
		done <- launched{session: s, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return res.session, nil
	case <-ctx.Done():
		go func() {
			if res := <-done; res.session != nil {
				_ = res.session.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func (l *PlaywrightLauncher) launch() (*playwrightSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless:        playwright.Bool(l.cfg.Headless),
		ChromiumSandbox: playwright.Bool(!l.cfg.NoSandbox),
		Args:            []string{"--disable-blink-features=AutomationControlled", "--disable-dev-shm-usage"},
	}
	if l.cfg.NoSandbox {
		opts.Args = append(opts.Args, "--no-sandbox", "--disable-setuid-sandbox")
	}
	if l.cfg.IgnoreCertErrors {
		opts.Args = append(opts.Args, "--ignore-certificate-errors", "--ignore-certificate-errors-spki-list")
	}
	if l.cfg.BrowserBin != "" {
		opts.ExecutablePath = playwright.String(l.cfg.BrowserBin)
	}
	if l.cfg.Proxy != "" {
		opts.Proxy = &playwright.Proxy{Server: l.cfg.Proxy}
	}

	browser, err := pw.Chromium.Launch(opts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	slog.Info("browser launched", "backend", config.BackendPlaywright, "version", browser.Version())

	return &playwrightSession{pw: pw, browser: browser, ignoreCertErrors: l.cfg.IgnoreCertErrors}, nil
}

type playwrightSession struct {
	pw               *playwright.Playwright
	browser          playwright.Browser
	ignoreCertErrors bool
}

// NewPage opens a page in a fresh browser context.
func (s *playwrightSession) NewPage(_ context.Context, opts PageOptions) (PageContext, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(s.ignoreCertErrors),
	}
	if opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(opts.UserAgent)
		ctxOpts.ExtraHttpHeaders = map[string]string{"Accept-Language": acceptLanguage}
	}

	bctx, err := s.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, err
	}

	if opts.Stealth {
		if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealth.JS)}); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}
	if opts.BlockAds {
		err := bctx.Route("**/*", func(route playwright.Route) {
			if isAdURL(route.Request().URL()) {
				_ = route.Abort("blockedbyclient")
				return
			}
			_ = route.Continue()
		})
		if err != nil {
			slog.Debug("ad blocking unavailable", "error", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, err
	}
	return &playwrightPage{bctx: bctx, page: page, idle: opts.IdleWindow}, nil
}

// Close shuts the browser and the driver down.
func (s *playwrightSession) Close() error {
	return errors.Join(s.browser.Close(), s.pw.Stop())
}

type playwrightPage struct {
	bctx playwright.BrowserContext
	page playwright.Page
	idle time.Duration
}

// Navigate waits for Playwright's networkidle state, which requires a fixed
// 500ms of network silence. A longer idle window is topped up afterwards.
func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	opts := playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateNetworkidle}
	if deadline, ok := ctx.Deadline(); ok {
		opts.Timeout = playwright.Float(float64(time.Until(deadline).Milliseconds()))
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.page.Goto(url, opts)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	case <-ctx.Done():
		// Close aborts the pending navigation.
		return ctx.Err()
	}

	if extra := p.idle - 500*time.Millisecond; extra > 0 {
		select {
		case <-time.After(extra):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (p *playwrightPage) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := p.page.Content()
	if err != nil {
		return nil, err
	}
	return &Snapshot{HTML: html, URL: p.page.URL()}, nil
}

func (p *playwrightPage) Close() error {
	return p.bctx.Close()
}
