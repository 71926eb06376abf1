package models

// SearchGameRequest is the payload for POST /api/search-game.
type SearchGameRequest struct {
	// GameName is the free-text query sent to the site's search. Required.
	GameName string `json:"gameName" binding:"required"`
}

// DownloadLinksRequest is the payload for POST /api/get-download-links.
type DownloadLinksRequest struct {
	// GameURL is the absolute URL of a game detail page. Required.
	GameURL string `json:"gameUrl" binding:"required"`
}
