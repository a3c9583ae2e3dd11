package dribbble

import (
	"context"
	"errors"
	"fmt"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/textutil"
)

var notFoundMarkers = []string{
	"section.message-404",
	"section.collage-404",
	"div.collage-404-images",
}

// profileMissing reports whether the page is the site's "not found" page.
func profileMissing(doc htmlutil.Extractor) bool {
	for _, marker := range notFoundMarkers {
		if !doc.Has(marker) {
			return false
		}
	}
	return true
}

func exists(yes bool) *string {
	answer := "No"
	if yes {
		answer = "Yes"
	}
	return &answer
}

func overviewCount(doc htmlutil.Extractor, selector string) int {
	return textutil.ParseCountPtr(doc.One(selector, htmlutil.Text).Ptr())
}

func (s *Scraper) scrapeOverview(ctx context.Context, username string) (Overview, error) {
	doc, err := s.client.sharedDocument(ctx, s.client.profileLink(username, ""))
	if doc == nil {
		return Overview{}, err
	}
	ex := htmlutil.FromDocument(doc)

	if profileMissing(ex) {
		s.tel.ReportInfo(fmt.Sprintf("%s not found", username))
		return Overview{UserExists: exists(false)}, nil
	}
	var status *StatusError
	if errors.As(err, &status) {
		return Overview{}, err
	}

	overview := Overview{
		UserExists:       exists(true),
		ShotsCount:       overviewCount(ex, "li.shots a span.count"),
		ProjectsCount:    overviewCount(ex, "li.projects a span.count"),
		CollectionsCount: overviewCount(ex, "li.collections a span.count"),
		LikedShots:       overviewCount(ex, "li.liked a span.count"),
		UserDescription:  cleanText(ex.One("div.masthead-intro h2", htmlutil.Text)),
		HireStatus:       ex.Has("div.hire-prompt-trigger.profile-action-item"),
		MembersCount:     overviewCount(ex, "li.members span.count"),
		TeamUrl:          absolute(doc.Url, ex.One("div.masthead-teams a.team-avatar-link[href]", htmlutil.Attr("href"))),
	}
	s.tel.ReportInfo(fmt.Sprintf(
		"%s found: %d shots, %d projects, %d collections, %d liked shots",
		username, overview.ShotsCount, overview.ProjectsCount, overview.CollectionsCount, overview.LikedShots,
	))
	return overview, nil
}
