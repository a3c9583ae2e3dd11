package dribbble

import (
	"dribbble-scraper/lib/redirect"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/97.0.4690.0 Safari/537.36"

// Config is read from dribbble.json5, every field left unset falls back to
// DefaultConfig.
type Config struct {
	BaseUrl        string `json:"base_url"`
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RedirectLimit  int    `json:"redirect_limit"`

	ShotsPerPage        int `json:"shots_per_page"`
	ProjectShotsPerPage int `json:"project_shots_per_page"`
	MembersPerPage      int `json:"members_per_page"`

	// page margins are added to the page bound computed from a count, they
	// cover listings that grew since the count was read
	ShotsPageMargin   int `json:"shots_page_margin"`
	ProjectPageMargin int `json:"project_page_margin"`
	MembersPageMargin int `json:"members_page_margin"`

	LoginMarkers []string `json:"login_markers"`
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:             "https://dribbble.com",
		UserAgent:           defaultUserAgent,
		TimeoutSeconds:      30,
		RedirectLimit:       10,
		ShotsPerPage:        8,
		ProjectShotsPerPage: 8,
		MembersPerPage:      6,
		ShotsPageMargin:     5,
		ProjectPageMargin:   1,
		MembersPageMargin:   1,
		LoginMarkers:        redirect.DefaultMarkers,
	}
}
