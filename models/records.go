package models

// HostType classifies a download link by the file host it points to.
type HostType string

const (
	HostMega      HostType = "mega"
	HostMediafire HostType = "mediafire"
	HostDirect    HostType = "direct"
)

// GameRecord is one search hit on the listing site.
type GameRecord struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Image string `json:"image"`
}

// DownloadLinkRecord is one outbound download link on a game page.
type DownloadLinkRecord struct {
	Link string `json:"link"`
	Text string `json:"text"`

	// HostType (hostType in the API description) is serialised as "type"
	// to stay wire-compatible with existing clients of the service.
	HostType HostType `json:"type"`
}
