package dribbble

import (
	"context"
	"net/url"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/textutil"
)

const report_collections_shots = "collections.shots"

func extractCollection(item htmlutil.Extractor, base *url.URL) (string, Collection, error) {
	name := cleanText(item.One("div.collection-name", htmlutil.Text))
	if name == nil || *name == "" {
		return "", Collection{}, nil
	}
	return *name, Collection{
		ShotsCount:     textutil.ParseLeadingCount(item.One("span.shots-count", htmlutil.Text).OrEmpty()),
		DesignersCount: textutil.ParseLeadingCount(item.One("span.designers-count", htmlutil.Text).OrEmpty()),
		Url:            absolute(base, item.One("a.shots-group", htmlutil.Attr("href"))),
		Shots:          map[string]CollectionShot{},
	}, nil
}

func extractCollectionShot(item htmlutil.Extractor, base *url.URL) (string, CollectionShot, error) {
	title := cleanText(item.One("div.shot-title", htmlutil.Text))
	if title == nil || *title == "" {
		return "", CollectionShot{}, nil
	}
	return *title, CollectionShot{
		DesignerProfileUrl: absolute(base, item.One("a.hoverable.url", htmlutil.Attr("href"))),
		DesignerName:       cleanText(item.One("span.display-name", htmlutil.Text)),
		Likes:              textutil.ParseCompactCount(item.One("span.js-shot-likes-count", htmlutil.Text).OrEmpty()),
		Views:              textutil.ParseCompactCount(item.One("span.js-shot-views-count", htmlutil.Text).OrEmpty()),
		IsPro:              item.Has("span.badge-pro"),
		ImageUrl:           absolute(base, item.One("img", htmlutil.Attr("src"))),
		Url:                absolute(base, item.One("a.shot-thumbnail-link", htmlutil.Attr("href"))),
	}, nil
}

// scrapeCollections fetches each collection's own page for its shots. Two
// collections with the same name resolve to the later one.
func (s *Scraper) scrapeCollections(ctx context.Context, username string) (map[string]Collection, error) {
	collections := map[string]Collection{}

	doc, err := s.client.document(ctx, s.client.profileLink(username, "collections"))
	if err != nil {
		return collections, err
	}
	items, err := extractItems(s.tel, "collections", htmlutil.FromDocument(doc), doc.Url, "li.shots-group-item", extractCollection)
	if err != nil {
		return collections, err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return collections, err
		}
		collection := item.value
		if collection.Url != nil {
			collection.Shots = s.collectionShots(ctx, item.key, *collection.Url)
		}
		collections[item.key] = collection
	}
	return collections, nil
}

func (s *Scraper) collectionShots(ctx context.Context, name, link string) map[string]CollectionShot {
	shots := map[string]CollectionShot{}

	doc, err := s.client.document(ctx, link)
	if err != nil {
		s.tel.ReportBroken(report_collections_shots, err, name)
		return shots
	}
	items, err := extractItems(s.tel, "collections/"+name, htmlutil.FromDocument(doc), doc.Url, "li.shot-thumbnail", extractCollectionShot)
	if err != nil {
		s.tel.ReportBroken(report_collections_shots, err, name)
	}
	for _, item := range items {
		shots[item.key] = item.value
	}
	return shots
}
