package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/gamegrab/config"
	"github.com/ysmood/gson"
)

// acceptLanguage is sent alongside the overridden user agent.
const acceptLanguage = "en-US,en;q=0.9"

// RodLauncher starts Chromium through go-rod.
type RodLauncher struct {
	cfg config.BrowserConfig
}

// NewRodLauncher creates a launcher for the given browser settings.
func NewRodLauncher(cfg config.BrowserConfig) *RodLauncher {
	return &RodLauncher{cfg: cfg}
}

// Launch starts the browser and connects to it. The process is killed if ctx
// ends before the connection is established.
func (r *RodLauncher) Launch(ctx context.Context) (Session, error) {
	l := r.newLauncher()

	type launched struct {
		browser *rod.Browser
		err     error
	}
	done := make(chan launched, 1)

	go func() {
		controlURL, err := l.Launch()
		if err != nil {
			done <- launched{err: err}
			return
		}
		slog.Info("browser launched", "controlURL", controlURL)

		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			done <- launched{err: err}
			return
		}
		if r.cfg.IgnoreCertErrors {
			if err := browser.IgnoreCertErrors(true); err != nil {
				slog.Warn("failed to disable certificate checks", "error", err)
			}
		}
		done <- launched{browser: browser}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			l.Kill()
			l.Cleanup()
			return nil, res.err
		}
		return &rodSession{browser: res.browser, launcher: l}, nil
	case <-ctx.Done():
		l.Kill()
		go func() {
			// Reap whatever the launch goroutine produced.
			if res := <-done; res.browser != nil {
				_ = res.browser.Close()
			}
			l.Cleanup()
		}()
		return nil, ctx.Err()
	}
}

func (r *RodLauncher) newLauncher() *launcher.Launcher {
	l := launcher.New().
		Headless(r.cfg.Headless).
		NoSandbox(r.cfg.NoSandbox)

	if r.cfg.BrowserBin != "" {
		l = l.Bin(r.cfg.BrowserBin)
	}
	if r.cfg.Proxy != "" {
		l = l.Proxy(r.cfg.Proxy)
	}
	if r.cfg.NoSandbox {
		l.Set(flags.Flag("disable-setuid-sandbox"))
	}
	if r.cfg.IgnoreCertErrors {
		l.Set(flags.Flag("ignore-certificate-errors"))
		l.Set(flags.Flag("ignore-certificate-errors-spki-list"))
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	return l
}

type rodSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewPage opens a page inside a fresh incognito context so requests never
// share cookies or storage.
func (s *rodSession) NewPage(ctx context.Context, opts PageOptions) (PageContext, error) {
	incognito, err := s.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, err
	}
	// Disposal must outlive the request context.
	detached := incognito.Context(context.Background())

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = detached.Close()
		return nil, err
	}

	rp := &rodPage{incognito: detached, page: page, idle: opts.IdleWindow}

	// Everything below must be in place before the first navigation.
	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      opts.UserAgent,
			AcceptLanguage: acceptLanguage,
		}); err != nil {
			_ = rp.Close()
			return nil, err
		}
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": acceptLanguage}),
		}).Call(page); err != nil {
			slog.Debug("extra headers unavailable", "error", err)
		}
	}
	if opts.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}
	if opts.BlockAds {
		if err := (proto.NetworkEnable{}).Call(page); err == nil {
			if err := (proto.NetworkSetBlockedURLs{Urls: blockedURLPatterns()}).Call(page); err != nil {
				slog.Debug("ad blocking unavailable", "error", err)
			}
		}
	}
	return rp, nil
}

// Close disconnects, kills the process and removes its profile directory.
func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	return err
}

type rodPage struct {
	incognito *rod.Browser
	page      *rod.Page
	idle      time.Duration
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)

	// The idle listener must exist before Navigate or in-flight requests
	// are missed and the wait returns immediately.
	waitIdle := page.WaitRequestIdle(p.idle, nil, nil, []proto.NetworkResourceType{
		proto.NetworkResourceTypeWebSocket,
		proto.NetworkResourceTypeEventSource,
		proto.NetworkResourceTypeMedia,
	})
	if err := page.Navigate(url); err != nil {
		return err
	}
	waitIdle()
	return ctx.Err()
}

func (p *rodPage) Snapshot(ctx context.Context) (*Snapshot, error) {
	page := p.page.Context(ctx)
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{HTML: html}
	if info, err := page.Info(); err == nil {
		snap.URL = info.URL
	}
	return snap, nil
}

// Close disposes the incognito context, which also closes the page. It does
// not use the request context so cleanup still works after a timeout.
func (p *rodPage) Close() error {
	return p.incognito.Close()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
