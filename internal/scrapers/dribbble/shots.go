package dribbble

import (
	"context"
	"fmt"
	"net/url"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/paginate"
)

func extractShot(item htmlutil.Extractor, base *url.URL) (string, Shot, error) {
	title := cleanText(item.One("div.shot-title", htmlutil.Text))
	if title == nil || *title == "" {
		return "", Shot{}, nil
	}
	return *title, Shot{
		Url:            absolute(base, item.One("a.shot-thumbnail-link", htmlutil.Attr("href"))),
		AltDescription: cleanText(item.One("img", htmlutil.Attr("alt"))),
	}, nil
}

// scrapeShots walks the shot listing, the number of pages comes from the
// shot count on the profile's landing page.
func (s *Scraper) scrapeShots(ctx context.Context, username string, withMetadata bool) (ShotsSection, error) {
	section := newShotsSection()

	doc, err := s.client.sharedDocument(ctx, s.client.profileLink(username, ""))
	if err != nil {
		return section, fmt.Errorf("shot count: %w", err)
	}
	section.ShotsCount = overviewCount(htmlutil.FromDocument(doc), "li.shots a span.count")

	shots, order, err := walkListing(ctx, s.client, s.tel, listing[Shot]{
		name: "shots",
		opts: paginate.Options{
			Total:    section.ShotsCount,
			PageSize: s.cfg.ShotsPerPage,
			Margin:   s.cfg.ShotsPageMargin,
			Start:    0,
			Stop:     paginate.Exhaust,
		},
		link: func(page int) string {
			return s.client.listingLink(username, "shots", page, s.cfg.ShotsPerPage)
		},
		item:    "li.shot-thumbnail",
		extract: extractShot,
	})
	section.Shots = shots
	if err != nil || !withMetadata {
		return section, err
	}

	err = enrich(
		ctx, s, "shots", order, section.Shots,
		func(shot Shot) *string { return shot.Url },
		func(shot *Shot, md Metadata) { shot.Metadata = &md },
	)
	return section, err
}
