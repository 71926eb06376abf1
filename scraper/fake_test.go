package scraper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/gamegrab/models"
)

// pageBehaviour controls what every fake page opened from now on does.
type pageBehaviour struct {
	html     string
	url      string
	navErr   error
	navDelay time.Duration
	snapErr  error
}

// fakeBrowser implements Launcher and counts everything that happens to
// the sessions and pages it hands out.
type fakeBrowser struct {
	launches atomic.Int32
	opened   atomic.Int32
	closed   atomic.Int32

	mu             sync.Mutex
	behaviour      pageBehaviour
	launchDelay    time.Duration
	launchFailures int
	newPageErr     error
	sessions       []*fakeSession
	lastOpts       PageOptions
	lastURL        string
}

func newFakeBrowser(html string) *fakeBrowser {
	return &fakeBrowser{behaviour: pageBehaviour{html: html}}
}

func (b *fakeBrowser) set(fn func(*pageBehaviour)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.behaviour)
}

func (b *fakeBrowser) Launch(ctx context.Context) (Session, error) {
	b.launches.Add(1)

	b.mu.Lock()
	delay := b.launchDelay
	b.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launchFailures > 0 {
		b.launchFailures--
		return nil, errors.New("chromium executable not found")
	}
	s := &fakeSession{b: b}
	b.sessions = append(b.sessions, s)
	return s, nil
}

func (b *fakeBrowser) session(i int) *fakeSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[i]
}

func (b *fakeBrowser) options() (PageOptions, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastOpts, b.lastURL
}

type fakeSession struct {
	b      *fakeBrowser
	closes atomic.Int32
}

func (s *fakeSession) NewPage(_ context.Context, opts PageOptions) (PageContext, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if s.b.newPageErr != nil {
		return nil, s.b.newPageErr
	}
	s.b.lastOpts = opts
	s.b.opened.Add(1)
	return &fakePage{b: s.b, beh: s.b.behaviour}, nil
}

func (s *fakeSession) Close() error {
	s.closes.Add(1)
	return nil
}

type fakePage struct {
	b   *fakeBrowser
	beh pageBehaviour
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.b.mu.Lock()
	p.b.lastURL = url
	p.b.mu.Unlock()

	if p.beh.navDelay > 0 {
		select {
		case <-time.After(p.beh.navDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.beh.navErr
}

func (p *fakePage) Snapshot(context.Context) (*Snapshot, error) {
	if p.beh.snapErr != nil {
		return nil, p.beh.snapErr
	}
	return &Snapshot{HTML: p.beh.html, URL: p.beh.url}, nil
}

func (p *fakePage) Close() error {
	p.b.closed.Add(1)
	return errors.New("target already closed")
}

// errCode returns the ScrapeError code of err, or "" if it has none.
func errCode(err error) string {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func assertCode(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := errCode(err); got != want {
		t.Fatalf("error code = %q, want %q (err: %v)", got, want, err)
	}
}
