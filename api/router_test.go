package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/gamegrab/config"
	"github.com/use-agent/gamegrab/metrics"
	"github.com/use-agent/gamegrab/models"
)

type stubFinder struct{}

func (stubFinder) SearchGames(context.Context, string) ([]models.GameRecord, error) {
	return []models.GameRecord{{Title: "A", Link: "https://online-fix.me/a.html"}}, nil
}

func (stubFinder) DownloadLinks(context.Context, string) ([]models.DownloadLinkRecord, error) {
	return nil, models.NewScrapeError(models.ErrCodeNotFound, "No download links found", nil)
}

type idle struct{}

func (idle) Running() bool { return false }

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Mode = "test"
	return cfg
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	m := metrics.New()
	m.IncLaunch()
	r := NewRouter(stubFinder{}, idle{}, m, testConfig(), time.Now())

	if w := do(r, http.MethodPost, "/api/search-game", `{"gameName":"a"}`, nil); w.Code != http.StatusOK {
		t.Errorf("search-game status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/get-download-links", `{"gameUrl":"https://online-fix.me/a.html"}`, nil); w.Code != http.StatusNotFound {
		t.Errorf("get-download-links status = %d, want 404", w.Code)
	}

	w := do(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"OK"`) {
		t.Errorf("health = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("responses should carry X-Request-ID")
	}

	w = do(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "gamegrab_browser_launches_total 1") {
		t.Errorf("metrics = %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_AuthProtectsAPIOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"k"}
	r := NewRouter(stubFinder{}, idle{}, nil, cfg, time.Now())

	if w := do(r, http.MethodPost, "/api/search-game", `{"gameName":"a"}`, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/search-game", `{"gameName":"a"}`, map[string]string{"X-API-Key": "k"}); w.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", w.Code)
	}
	if w := do(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health behind auth: %d", w.Code)
	}
}

func TestRouter_Preflight(t *testing.T) {
	r := NewRouter(stubFinder{}, idle{}, nil, testConfig(), time.Now())
	w := do(r, http.MethodOptions, "/api/search-game", "", map[string]string{"Origin": "https://ui.example"})
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
