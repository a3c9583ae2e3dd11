package dribbble

import (
	"context"
	"fmt"
	"net/url"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/paginate"
	"dribbble-scraper/lib/textutil"
)

const report_projects_missing_link = "projects.missing-link"

// optionalDate parses a date that may be absent, a present but unparsable
// date is an error.
func optionalDate(v htmlutil.Value, prefixes ...string) (*string, error) {
	text, ok := v.String()
	if !ok {
		return nil, nil
	}
	date, err := textutil.ParseDate(textutil.StripWords(text, prefixes...))
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func extractProjectShot(item htmlutil.Extractor, base *url.URL) (string, ProjectShot, error) {
	title := cleanText(item.One("h3.shot-title a", htmlutil.Text))
	if title == nil || *title == "" {
		return "", ProjectShot{}, nil
	}
	published, err := optionalDate(item.One("p.shot-date", htmlutil.Text))
	if err != nil {
		return "", ProjectShot{}, fmt.Errorf("shot '%s' published date: %w", *title, err)
	}
	return *title, ProjectShot{
		PublishedDate: published,
		Description:   cleanText(item.One("p.shot-description", htmlutil.Text)),
		Url:           absolute(base, item.One("a.shot-link", htmlutil.Attr("href"))),
	}, nil
}

type projectSummary struct {
	title   string
	count   int
	updated *string
	link    *string
}

// projectSummaries reads the project list. Titles, counts, dates and links
// are listed separately on the page and paired up by position.
func projectSummaries(doc htmlutil.Extractor, base *url.URL) ([]projectSummary, error) {
	titles := doc.AllValues("div.collection-name", htmlutil.Text)
	counts := doc.AllValues("div.shots-group-meta>span.shots-count", htmlutil.Text)
	timestamps := doc.AllValues("span.timestamp", htmlutil.Text)
	links := doc.AllValues("a.shots-group", htmlutil.Attr("href"))

	updated := make([]string, 0, len(timestamps))
	for _, timestamp := range timestamps {
		date, err := textutil.ParseDate(textutil.StripWords(timestamp, "Updated"))
		if err != nil {
			return nil, fmt.Errorf("project updated date: %w", err)
		}
		updated = append(updated, date)
	}

	n := min(len(titles), len(counts), len(updated), len(links))
	summaries := make([]projectSummary, 0, n)
	for i := 0; i < n; i++ {
		summaries = append(summaries, projectSummary{
			title:   textutil.Clean(titles[i]),
			count:   textutil.ParseLeadingCount(counts[i]),
			updated: &updated[i],
			link:    htmlutil.Absolute(base, links[i]),
		})
	}
	return summaries, nil
}

// scrapeProjects paginates each project's shots separately, every project has
// its own shot count and so its own page bound.
func (s *Scraper) scrapeProjects(ctx context.Context, username string) (map[string]Project, error) {
	projects := map[string]Project{}

	doc, err := s.client.document(ctx, s.client.profileLink(username, "projects"))
	if err != nil {
		return projects, err
	}
	summaries, err := projectSummaries(htmlutil.FromDocument(doc), doc.Url)
	if err != nil {
		return projects, err
	}

	for _, summary := range summaries {
		if summary.title == "" {
			s.tel.ReportWarning(report_listing_untitled_item, "projects")
			continue
		}
		project := Project{
			UpdatedDate: summary.updated,
			Shots:       map[string]ProjectShot{},
		}
		projects[summary.title] = project
		if summary.link == nil {
			s.tel.ReportWarning(report_projects_missing_link, summary.title)
			continue
		}

		link := *summary.link
		shots, _, err := walkListing(ctx, s.client, s.tel, listing[ProjectShot]{
			name: fmt.Sprintf("projects/%s", summary.title),
			opts: paginate.Options{
				Total:    summary.count,
				PageSize: s.cfg.ProjectShotsPerPage,
				Margin:   s.cfg.ProjectPageMargin,
				Start:    1,
				Stop:     paginate.Exhaust,
			},
			link:    func(page int) string { return withPage(link, page) },
			item:    "div.shot-section-item",
			extract: extractProjectShot,
		})
		project.Shots = shots
		projects[summary.title] = project
		if err != nil {
			return projects, err
		}
	}
	return projects, nil
}
