// Package dribbble scrapes the public sections of a dribbble profile into a
// single Profile record.
package dribbble

import (
	"context"
	"fmt"
	"time"

	"dribbble-scraper/internal/components/assert"
	"dribbble-scraper/internal/components/telemetry"
	"dribbble-scraper/lib/redirect"
	"dribbble-scraper/lib/restyutil"

	"golang.org/x/sync/errgroup"
)

const (
	report_section_overview    = "section.overview"
	report_section_about       = "section.about"
	report_section_shots       = "section.shots"
	report_section_projects    = "section.projects"
	report_section_collections = "section.collections"
	report_section_goods       = "section.goods"
	report_section_members     = "section.members"
)

type Options struct {
	// Metadata fetches every shot's own page for its palette, counts, date
	// and tags. Goods are always enriched.
	Metadata bool
	// Dump receives every http exchange when set.
	Dump restyutil.InstrumentOutput
}

// linkResolver is implemented by redirect.Resolver.
type linkResolver interface {
	Resolve(ctx context.Context, link string) (redirect.Destination, error)
}

type Scraper struct {
	cfg      Config
	opts     Options
	client   *client
	resolver linkResolver

	tel telemetry.API
}

func NewScraper(cfg Config, opts Options, tel telemetry.API) (*Scraper, error) {
	assert.NotNil(tel)
	assert.Positive("shots_per_page", cfg.ShotsPerPage)
	assert.Positive("project_shots_per_page", cfg.ProjectShotsPerPage)
	assert.Positive("members_per_page", cfg.MembersPerPage)

	tel = telemetry.NewScopedAPI("dribbble", tel)

	c, err := newClient(cfg, tel, opts.Dump)
	if err != nil {
		return nil, err
	}
	return &Scraper{
		cfg:      cfg,
		opts:     opts,
		client:   c,
		resolver: redirect.New(c.http, cfg.LoginMarkers),
		tel:      tel,
	}, nil
}

// runSection starts scrape on g and stores whatever it returns in out, even
// when it fails partway. Failures are reported and never reach g.
func runSection[T any](ctx context.Context, g *errgroup.Group, tel telemetry.API, id string, scrape func(context.Context) (T, error), out *T) {
	g.Go(func() error {
		start := time.Now()
		result, err := scrape(ctx)
		*out = result
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			tel.ReportBroken(id, err)
			return nil // errors handled via telemetry
		}
		tel.ReportInfo(fmt.Sprintf("%s scraped in %s", id, time.Since(start).Round(time.Millisecond)))
		return nil
	})
}

// Scrape runs every section of username's profile concurrently and merges
// them once all of them have finished. A failing section leaves its fields
// absent, the only error returned is ctx's.
func (s *Scraper) Scrape(ctx context.Context, username string) (Profile, error) {
	assert.NotEmptyStr(username)

	var (
		overview    Overview
		about       About
		shots       ShotsSection
		projects    map[string]Project
		collections map[string]Collection
		members     *MembersSection
		goods       map[string]Good
	)

	var g errgroup.Group
	runSection(ctx, &g, s.tel, report_section_overview, func(ctx context.Context) (Overview, error) {
		return s.scrapeOverview(ctx, username)
	}, &overview)
	runSection(ctx, &g, s.tel, report_section_about, func(ctx context.Context) (About, error) {
		return s.scrapeAbout(ctx, username)
	}, &about)
	runSection(ctx, &g, s.tel, report_section_shots, func(ctx context.Context) (ShotsSection, error) {
		return s.scrapeShots(ctx, username, s.opts.Metadata)
	}, &shots)
	runSection(ctx, &g, s.tel, report_section_projects, func(ctx context.Context) (map[string]Project, error) {
		return s.scrapeProjects(ctx, username)
	}, &projects)
	runSection(ctx, &g, s.tel, report_section_collections, func(ctx context.Context) (map[string]Collection, error) {
		return s.scrapeCollections(ctx, username)
	}, &collections)
	runSection(ctx, &g, s.tel, report_section_members, func(ctx context.Context) (*MembersSection, error) {
		return s.scrapeMembers(ctx, username)
	}, &members)
	runSection(ctx, &g, s.tel, report_section_goods, func(ctx context.Context) (map[string]Good, error) {
		return s.scrapeGoods(ctx, username)
	}, &goods)
	g.Wait()

	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	profile := newProfile(username, s.client.profileLink(username, ""))
	profile.Overview = overview
	profile.About = about
	profile.Members = members
	if shots.Shots != nil {
		profile.Shots = shots
	}
	if projects != nil {
		profile.Projects = projects
	}
	if collections != nil {
		profile.Collections = collections
	}
	if goods != nil {
		profile.GoodsForSale = goods
	}
	return profile, nil
}
