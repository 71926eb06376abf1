package models

// SearchGameResponse is the success response for POST /api/search-game.
type SearchGameResponse struct {
	Message string       `json:"message"`
	Games   []GameRecord `json:"games"`
}

// DownloadLinksResponse is the success response for POST /api/get-download-links.
type DownloadLinksResponse struct {
	Message       string               `json:"message"`
	DownloadLinks []DownloadLinkRecord `json:"downloadLinks"`
}

// ErrorResponse is returned for every non-2xx outcome. Error and Code are
// omitted for validation failures and "not found".
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Browser   string `json:"browser"` // "running" or "idle"
}
