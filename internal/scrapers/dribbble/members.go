package dribbble

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/paginate"
)

const memberLinkSelector = "span.designer-card-username a.designer-link"

func memberUsername(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return strings.Trim(parsed.Path, "/")
}

func extractMember(item htmlutil.Extractor, base *url.URL) (string, Member, error) {
	username := memberUsername(item.One(memberLinkSelector, htmlutil.Attr("href")).OrEmpty())
	if username == "" {
		return "", Member{}, nil
	}
	return username, Member{
		ProfileUrl:  htmlutil.Absolute(base, "/"+username),
		ProfileName: cleanText(item.One(memberLinkSelector, htmlutil.Text)),
		Location:    cleanText(item.One("span.designer-card-location", htmlutil.Text)),
		IsPro:       item.Has("span.badge.badge-pro"),
	}, nil
}

// scrapeMembers lists a team's members, the section is absent for profiles
// without any. The listing ends at the first empty page.
func (s *Scraper) scrapeMembers(ctx context.Context, username string) (*MembersSection, error) {
	doc, err := s.client.sharedDocument(ctx, s.client.profileLink(username, ""))
	if err != nil {
		return nil, fmt.Errorf("member count: %w", err)
	}
	count := overviewCount(htmlutil.FromDocument(doc), "li.members a span.count")
	if count <= 0 {
		return nil, nil
	}

	members, _, err := walkListing(ctx, s.client, s.tel, listing[Member]{
		name: "members",
		opts: paginate.Options{
			Total:    count,
			PageSize: s.cfg.MembersPerPage,
			Margin:   s.cfg.MembersPageMargin,
			Start:    1,
			Stop:     paginate.StopOnEmpty,
		},
		link: func(page int) string {
			return s.client.listingLink(username, "members", page, s.cfg.MembersPerPage)
		},
		item:    "li.scrolling-row",
		extract: extractMember,
	})
	return &MembersSection{
		MembersCount: count,
		Members:      members,
	}, err
}
