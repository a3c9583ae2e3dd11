package dribbble

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"dribbble-scraper/internal/components/telemetry"
	"dribbble-scraper/lib/redirect"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

type route struct {
	status int
	file   string
}

// site serves testdata fixtures by path and query, every request is logged.
type site struct {
	t      testing.TB
	server *httptest.Server
	routes map[string]route

	mutex    sync.Mutex
	requests []string
}

func newSite(t testing.TB) *site {
	s := &site{t: t, routes: map[string]route{}}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

func (s *site) handle(key string, status int, file string) {
	s.routes[key] = route{status: status, file: file}
}

func (s *site) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	s.mutex.Lock()
	s.requests = append(s.requests, key)
	s.mutex.Unlock()

	rt, ok := s.routes[key]
	if !ok {
		http.NotFound(w, r)
		return
	}
	var body []byte
	if rt.file != "" {
		contents, err := os.ReadFile(filepath.Join("testdata", rt.file))
		if err != nil {
			s.t.Errorf("read fixture: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = contents
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(rt.status)
	w.Write(body)
}

func (s *site) requested(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Contains(s.requests, key)
}

func (s *site) link(path string) string {
	return s.server.URL + path
}

type fakeResolver map[string]redirect.Destination

func (f fakeResolver) Resolve(_ context.Context, link string) (redirect.Destination, error) {
	dest, ok := f[link]
	if !ok {
		return redirect.Destination{}, fmt.Errorf("resolve '%s': no route", link)
	}
	return dest, nil
}

// janeSite serves a complete profile.
func janeSite(t testing.TB) *site {
	s := newSite(t)
	s.handle("/jane", 200, "overview.html")
	s.handle("/jane/about", 200, "about.html")

	s.handle("/jane/shots?page=0&per_page=8", 200, "shots_page_0.html")
	s.handle("/jane/shots?page=1&per_page=8", 200, "shots_page_1.html")
	for page := 2; page <= 5; page++ {
		s.handle(fmt.Sprintf("/jane/shots?page=%d&per_page=8", page), 200, "empty.html")
	}
	s.handle("/shots/1-alpha", 200, "shot_alpha.html")
	s.handle("/shots/4-beta", 200, "shot_beta.html")
	s.handle("/shots/99", 200, "shot_icons.html")

	s.handle("/jane/projects", 200, "projects.html")
	s.handle("/jane/projects/1-brand?page=1", 200, "project_brand_1.html")
	s.handle("/jane/projects/1-brand?page=2", 200, "project_brand_2.html")
	s.handle("/jane/projects/2-web?page=1", 200, "project_web_1.html")

	s.handle("/jane/collections", 200, "collections.html")
	s.handle("/jane/collections/1-mobile", 200, "collection_mobile_1.html")
	s.handle("/jane/collections/2-mobile", 200, "collection_mobile_2.html")
	s.handle("/jane/collections/3-web", 500, "empty.html")

	s.handle("/jane/members?page=1&per_page=6", 200, "members_1.html")
	s.handle("/jane/members?page=2&per_page=6", 200, "empty.html")

	s.handle("/jane/goods", 200, "goods.html")
	return s
}

func newTestScraper(t testing.TB, s *site, opts Options) (*Scraper, telemetry.TestAPI) {
	tel := telemetry.NewTestAPI(t)
	cfg := DefaultConfig()
	cfg.BaseUrl = s.server.URL
	cfg.TimeoutSeconds = 5

	scraper, err := NewScraper(cfg, opts, tel)
	require.NoError(t, err)
	scraper.resolver = fakeResolver{
		s.link("/jane/social/twitter"): {
			URL:  "https://twitter.com/jane",
			Host: "twitter.com",
		},
		s.link("/jane/social/linkedin"): {
			URL:  "https://www.linkedin.com/in/jane",
			Host: "www.linkedin.com",
		},
	}
	return scraper, tel
}

func janeProfile(s *site) Profile {
	return Profile{
		Username:   "jane",
		ProfileUrl: s.link("/jane"),
		Overview: Overview{
			UserExists:       ptr("Yes"),
			ShotsCount:       3,
			ProjectsCount:    2,
			CollectionsCount: 3,
			LikedShots:       1204,
			UserDescription:  ptr("Brand designer from Lisbon"),
			HireStatus:       true,
			MembersCount:     13,
			TeamUrl:          ptr(s.link("/studio-x")),
		},
		About: About{
			Followers: 2310,
			Following: 87,
			Tags:      ptr("14"),
			Location:  ptr("Lisbon, Portugal"),
			Bio:       ptr("Designing brands."),
			IsPro:     true,
			JoinDate:  ptr("2020-01-01"),
			Skills:    []string{"Branding", "Typography"},
			SocialMediaProfiles: map[string]string{
				"twitter":  "https://twitter.com/jane",
				"linkedin": "https://www.linkedin.com/in/jane",
			},
		},
		Shots: ShotsSection{
			ShotsCount: 3,
			Shots: map[string]Shot{
				"Alpha": {
					Url:            ptr(s.link("/shots/1-alpha")),
					AltDescription: ptr("Alpha logo"),
					Metadata: &Metadata{
						ColorPalette:  []string{"#FF0000", "#00FF00"},
						Likes:         1200,
						PublishedDate: ptr("2020-01-05"),
						SavesCount:    34,
						IsAnimated:    ptr(false),
						IsAnimatedGif: ptr(false),
						Tags:          []string{"branding", "logo"},
						ViewsCount:    5400,
					},
				},
				"Beta": {
					Url:      ptr(s.link("/shots/4-beta")),
					Metadata: &Metadata{ColorPalette: []string{}},
				},
				"Gamma": {
					Url:            ptr(s.link("/shots/3-gamma")),
					AltDescription: ptr("Gamma"),
					Metadata:       &Metadata{ColorPalette: []string{}},
				},
			},
		},
		Projects: map[string]Project{
			"Brand": {
				UpdatedDate: ptr("2021-03-05"),
				Shots: map[string]ProjectShot{
					"Logo": {
						PublishedDate: ptr("2021-03-01"),
						Description:   ptr("Primary logo"),
						Url:           ptr(s.link("/shots/10-logo")),
					},
					"Palette": {
						PublishedDate: ptr("2021-02-03"),
						Url:           ptr(s.link("/shots/11-palette")),
					},
				},
			},
			"Web": {
				UpdatedDate: ptr("2022-04-10"),
				Shots: map[string]ProjectShot{
					"Landing": {Url: ptr(s.link("/shots/12-landing"))},
				},
			},
		},
		Collections: map[string]Collection{
			"Mobile": {
				ShotsCount:     1,
				DesignersCount: 1,
				Url:            ptr(s.link("/jane/collections/2-mobile")),
				Shots: map[string]CollectionShot{
					"Wallet app": {
						DesignerProfileUrl: ptr(s.link("/sam")),
						DesignerName:       ptr("Sam Lee"),
						Likes:              1200,
						Views:              15300,
						IsPro:              true,
						ImageUrl:           ptr("https://cdn.example/wallet.png"),
						Url:                ptr(s.link("/shots/20-wallet")),
					},
				},
			},
			"Web": {
				ShotsCount:     2,
				DesignersCount: 2,
				Url:            ptr(s.link("/jane/collections/3-web")),
				Shots:          map[string]CollectionShot{},
			},
		},
		Members: &MembersSection{
			MembersCount: 13,
			Members: map[string]Member{
				"sam": {
					ProfileUrl:  ptr(s.link("/sam")),
					ProfileName: ptr("Sam Lee"),
					Location:    ptr("Porto"),
					IsPro:       true,
				},
				"ana": {
					ProfileUrl:  ptr(s.link("/ana")),
					ProfileName: ptr("Ana"),
				},
			},
		},
		GoodsForSale: map[string]Good{
			"Icon pack": {
				Url:   ptr(s.link("/shots/99")),
				Price: ptr("$12"),
				Metadata: &Metadata{
					ColorPalette:  []string{"#000000"},
					Likes:         5,
					PublishedDate: ptr("2022-02-03"),
					SavesCount:    1,
					IsAnimated:    ptr(true),
					IsAnimatedGif: ptr(false),
					Tags:          []string{"icons"},
					ViewsCount:    80,
				},
			},
		},
	}
}

func TestScrapeWithMetadata(t *testing.T) {
	s := janeSite(t)
	scraper, tel := newTestScraper(t, s, Options{Metadata: true})

	profile, err := scraper.Scrape(context.Background(), "jane")
	require.NoError(t, err)

	diff := cmp.Diff(janeProfile(s), profile)
	require.Empty(t, diff)

	// the landing page is shared by overview, shots and members
	count := 0
	for _, req := range s.requests {
		if req == "/jane" {
			count++
		}
	}
	require.Equal(t, 1, count)

	// (3 // 8) + 5 = 5, pages 0 through 5
	for page := 0; page <= 5; page++ {
		require.True(t, s.requested(fmt.Sprintf("/jane/shots?page=%d&per_page=8", page)))
	}
	require.False(t, s.requested("/jane/shots?page=6&per_page=8"))

	// members stop at the first empty page even though the bound is 3
	require.True(t, s.requested("/jane/members?page=2&per_page=6"))
	require.False(t, s.requested("/jane/members?page=3&per_page=6"))

	require.True(t, tel.HasBroken(report_about_social_link))
	require.True(t, tel.HasBroken(report_collections_shots))
	require.True(t, tel.HasBroken(report_metadata_fetch))
	require.False(t, tel.HasBroken(report_section_projects))
	require.Contains(t, fmt.Sprint(tel.Warnings()), report_metadata_payload)
	require.Contains(t, fmt.Sprint(tel.Warnings()), report_listing_untitled_item)
}

func TestScrapeWithoutMetadata(t *testing.T) {
	s := janeSite(t)
	scraper, _ := newTestScraper(t, s, Options{})

	profile, err := scraper.Scrape(context.Background(), "jane")
	require.NoError(t, err)

	for title, shot := range profile.Shots.Shots {
		require.Nil(t, shot.Metadata, title)
	}
	require.False(t, s.requested("/shots/1-alpha"))
	// goods are enriched either way
	require.True(t, s.requested("/shots/99"))
	require.NotNil(t, profile.GoodsForSale["Icon pack"].Metadata)
}

func TestScrapeMissingProfile(t *testing.T) {
	s := newSite(t)
	s.handle("/does-not-exist-xyz", 404, "not_found.html")
	scraper, tel := newTestScraper(t, s, Options{Metadata: true})

	profile, err := scraper.Scrape(context.Background(), "does-not-exist-xyz")
	require.NoError(t, err)

	expected := newProfile("does-not-exist-xyz", s.link("/does-not-exist-xyz"))
	expected.UserExists = ptr("No")
	require.Empty(t, cmp.Diff(expected, profile))

	require.False(t, tel.HasBroken(report_section_overview))
	require.True(t, tel.HasBroken(report_section_about))

	out, err := json.Marshal(profile)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "No", decoded["user_exists"])
	require.Nil(t, decoded["members"])
	require.Equal(t, map[string]any{}, decoded["projects"])
}

func TestScrapeUnknownDateAbortsSection(t *testing.T) {
	s := janeSite(t)
	s.handle("/jane/projects", 200, "projects_bad_date.html")
	scraper, tel := newTestScraper(t, s, Options{})

	profile, err := scraper.Scrape(context.Background(), "jane")
	require.NoError(t, err)

	require.Empty(t, profile.Projects)
	require.True(t, tel.HasBroken(report_section_projects))
	require.False(t, s.requested("/jane/projects/1-brand?page=1"))

	// siblings are unaffected
	require.Equal(t, ptr("Yes"), profile.UserExists)
	require.Len(t, profile.Collections, 2)
}

func TestScrapeSkipsFailedPage(t *testing.T) {
	s := janeSite(t)
	s.handle("/jane/shots?page=3&per_page=8", 500, "empty.html")
	scraper, tel := newTestScraper(t, s, Options{})

	profile, err := scraper.Scrape(context.Background(), "jane")
	require.NoError(t, err)

	// the walk continues past the failed page
	require.True(t, s.requested("/jane/shots?page=5&per_page=8"))
	require.Len(t, profile.Shots.Shots, len(janeProfile(s).Shots.Shots))

	require.True(t, tel.HasBroken(report_listing_page))
	require.False(t, tel.HasBroken(report_section_shots))
	require.Contains(t, fmt.Sprint(tel.Warnings()), report_listing_pages_failed)
}

func TestScrapeIsIdempotent(t *testing.T) {
	s := janeSite(t)

	render := func() []byte {
		scraper, _ := newTestScraper(t, s, Options{Metadata: true})
		profile, err := scraper.Scrape(context.Background(), "jane")
		require.NoError(t, err)
		out, err := json.MarshalIndent(profile, "", "  ")
		require.NoError(t, err)
		return out
	}

	require.Equal(t, string(render()), string(render()))
}

func TestScrapeCanceled(t *testing.T) {
	s := janeSite(t)
	scraper, _ := newTestScraper(t, s, Options{Metadata: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scraper.Scrape(ctx, "jane")
	require.ErrorIs(t, err, context.Canceled)
}
