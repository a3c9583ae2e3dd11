package dribbble

import (
	"context"
	"net/url"

	"dribbble-scraper/lib/htmlutil"
)

func (s *Scraper) extractGood(item htmlutil.Extractor, _ *url.URL) (string, Good, error) {
	name := cleanText(item.One("div.shot-details-container>div.font-label", htmlutil.Text))
	if name == nil || *name == "" {
		return "", Good{}, nil
	}
	good := Good{
		Price: cleanText(item.One("div.shot-details-container>div.price-label>span", htmlutil.Text)),
	}
	if id, ok := item.Self(htmlutil.Attr("data-thumbnail-id")).String(); ok && id != "" {
		link := s.client.link("/shots/"+url.PathEscape(id), nil)
		good.Url = &link
	}
	return *name, good, nil
}

// scrapeGoods lists the goods for sale, each is enriched with its shot
// metadata.
func (s *Scraper) scrapeGoods(ctx context.Context, username string) (map[string]Good, error) {
	goods := map[string]Good{}

	doc, err := s.client.document(ctx, s.client.profileLink(username, "goods"))
	if err != nil {
		return goods, err
	}
	items, err := extractItems(s.tel, "goods", htmlutil.FromDocument(doc), doc.Url, "li.shot-thumbnail-container[data-thumbnail-id]", s.extractGood)
	if err != nil {
		return goods, err
	}

	order := []string{}
	for _, item := range items {
		if _, seen := goods[item.key]; !seen {
			order = append(order, item.key)
		}
		goods[item.key] = item.value
	}

	err = enrich(
		ctx, s, "goods", order, goods,
		func(good Good) *string { return good.Url },
		func(good *Good, md Metadata) { good.Metadata = &md },
	)
	return goods, err
}
