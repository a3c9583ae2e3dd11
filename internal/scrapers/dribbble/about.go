package dribbble

import (
	"context"
	"fmt"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/redirect"
	"dribbble-scraper/lib/textutil"
)

const report_about_social_link = "about.social-link"

const profileStatsSelector = "section.content-section.profile-stats-section.medium-screens-only a"

func (s *Scraper) scrapeAbout(ctx context.Context, username string) (About, error) {
	about := newAbout()

	doc, err := s.client.document(ctx, s.client.profileLink(username, "about"))
	if err != nil {
		return about, err
	}
	ex := htmlutil.FromDocument(doc)

	// followers, following and tags, in that order
	stats := []string{}
	for _, stat := range ex.All(profileStatsSelector) {
		stats = append(stats, stat.One("span.count", htmlutil.Text).OrEmpty())
	}
	if len(stats) > 0 {
		about.Followers = textutil.ParseCount(stats[0])
	}
	if len(stats) > 1 {
		about.Following = textutil.ParseCount(stats[1])
	}
	if len(stats) > 2 {
		tags := textutil.Clean(stats[2])
		about.Tags = &tags
	}

	about.Location = cleanText(ex.One("p.location", htmlutil.Text))
	about.Bio = cleanText(ex.One("p.bio-text", htmlutil.Text))
	about.IsPro = ex.Has("p.info-item.pro")

	if created, ok := ex.One("p.info-item.created span", htmlutil.Text).String(); ok {
		joined, err := textutil.ParseDate(textutil.StripWords(created, "Member since"))
		if err != nil {
			return about, fmt.Errorf("join date: %w", err)
		}
		about.JoinDate = &joined
	}

	for _, skill := range ex.AllValues("ul.skills-list a", htmlutil.Text) {
		about.Skills = append(about.Skills, textutil.Clean(skill))
	}

	for _, link := range ex.AllValues("ul.social-links-list a", htmlutil.Attr("href")) {
		if err := ctx.Err(); err != nil {
			return about, err
		}
		abs := htmlutil.Absolute(doc.Url, link)
		if abs == nil {
			continue
		}
		dest, err := s.resolver.Resolve(ctx, *abs)
		if err != nil {
			s.tel.ReportBroken(report_about_social_link, err, *abs)
			continue
		}
		about.SocialMediaProfiles[redirect.NetworkName(dest.Host)] = dest.URL
	}

	s.tel.ReportInfo(fmt.Sprintf(
		"%d followers, %d following, %d skills",
		about.Followers, about.Following, len(about.Skills),
	))
	return about, nil
}
