package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// gameRecord mirrors the gamegrab search result model.
type gameRecord struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image"`
}

// downloadLink mirrors the gamegrab download link model.
type downloadLink struct {
	Link string `json:"link"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// apiResponse covers every gamegrab response body.
type apiResponse struct {
	Message       string         `json:"message"`
	Error         string         `json:"error"`
	Code          string         `json:"code"`
	Games         []gameRecord   `json:"games"`
	DownloadLinks []downloadLink `json:"downloadLinks"`
}

// apiClient talks to a running gamegrab server.
type apiClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func newAPIClient(baseURL, apiKey string) *apiClient {
	return &apiClient{
		// Generous: a cold request includes the browser launch.
		http:    &http.Client{Timeout: 120 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// post sends a JSON request and decodes the JSON reply, whatever its status.
func (c *apiClient) post(ctx context.Context, path string, payload any) (int, *apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, &out, nil
}

func main() {
	apiURL := os.Getenv("GAMEGRAB_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}
	client := newAPIClient(apiURL, os.Getenv("GAMEGRAB_API_KEY"))

	s := newServer(client)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(client *apiClient) *server.MCPServer {
	s := server.NewMCPServer(
		"gamegrab",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	searchGameTool := mcp.NewTool("search_game",
		mcp.WithDescription("Search online-fix.me for a game by name. Returns the title, page link and thumbnail of every match."),
		mcp.WithString("game_name",
			mcp.Required(),
			mcp.Description("Name of the game to search for"),
		),
	)
	s.AddTool(searchGameTool, handleSearchGame(client))

	downloadLinksTool := mcp.NewTool("get_download_links",
		mcp.WithDescription("List the download links (mega, mediafire or direct) on a game page returned by search_game."),
		mcp.WithString("game_url",
			mcp.Required(),
			mcp.Description("Absolute URL of the game page"),
		),
	)
	s.AddTool(downloadLinksTool, handleDownloadLinks(client))

	return s
}

func handleSearchGame(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("game_name")
		if err != nil || strings.TrimSpace(name) == "" {
			return mcp.NewToolResultError("game_name is required"), nil
		}

		status, resp, err := client.post(ctx, "/api/search-game", map[string]string{"gameName": name})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status == http.StatusNotFound {
			return mcp.NewToolResultText(fmt.Sprintf("No games found for %q.", name)), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(failureText(status, resp)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d games for %q:\n", len(resp.Games), name)
		for i, g := range resp.Games {
			fmt.Fprintf(&b, "\n%d. %s\n   %s\n", i+1, g.Title, g.Link)
			if g.Image != "" {
				fmt.Fprintf(&b, "   Image: %s\n", g.Image)
			}
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func handleDownloadLinks(client *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gameURL, err := request.RequireString("game_url")
		if err != nil || strings.TrimSpace(gameURL) == "" {
			return mcp.NewToolResultError("game_url is required"), nil
		}

		status, resp, err := client.post(ctx, "/api/get-download-links", map[string]string{"gameUrl": gameURL})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status == http.StatusNotFound {
			return mcp.NewToolResultText("No download links found on " + gameURL + "."), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(failureText(status, resp)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d download links:\n", len(resp.DownloadLinks))
		for _, l := range resp.DownloadLinks {
			text := l.Text
			if text == "" {
				text = "(no text)"
			}
			fmt.Fprintf(&b, "\n[%s] %s\n   %s\n", l.Type, text, l.Link)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

// failureText renders a non-success API reply.
func failureText(status int, resp *apiResponse) string {
	msg := fmt.Sprintf("request failed with status %d", status)
	if resp == nil {
		return msg
	}
	if resp.Message != "" {
		msg = resp.Message
	}
	if resp.Code != "" {
		msg = fmt.Sprintf("[%s] %s", resp.Code, msg)
	}
	if resp.Error != "" {
		msg += ": " + resp.Error
	}
	return msg
}
