package dribbble

import (
	"context"
	"fmt"
	"net/url"

	"dribbble-scraper/internal/components/telemetry"
	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/paginate"
	"dribbble-scraper/lib/textutil"
)

const (
	report_listing_page          = "listing.page"
	report_listing_pages_failed  = "listing.pages-failed"
	report_listing_items         = "listing.items"
	report_listing_untitled_item = "listing.untitled-item"
)

// cleanText is the cleaned text of v or absent.
func cleanText(v htmlutil.Value) *string {
	text, ok := v.String()
	if !ok {
		return nil
	}
	cleaned := textutil.Clean(text)
	return &cleaned
}

// absolute resolves the href or src held by v against base.
func absolute(base *url.URL, v htmlutil.Value) *string {
	href, ok := v.String()
	if !ok {
		return nil
	}
	return htmlutil.Absolute(base, href)
}

type keyed[T any] struct {
	key   string
	value T
}

func keyOf[T any](k keyed[T]) string {
	return k.key
}

// itemFunc extracts one listing item. An empty key skips the item, an error
// aborts the whole listing.
type itemFunc[T any] func(item htmlutil.Extractor, base *url.URL) (key string, value T, err error)

// listing is a paginated list of items that share a markup shape.
type listing[T any] struct {
	name    string
	opts    paginate.Options
	link    func(page int) string
	item    string
	extract itemFunc[T]
}

type pageReporter struct {
	tel     telemetry.API
	listing string
}

func (r pageReporter) Page(page, bound, items int) {
	r.tel.ReportInfo(fmt.Sprintf("%s: page %d of %d scraped, %d items", r.listing, page, bound, items))
	r.tel.ReportCount(report_listing_items, int64(items))
}

func (r pageReporter) PageFailed(page int, err error) {
	r.tel.ReportBroken(report_listing_page, err, r.listing, page)
}

// extractItems runs extract over every node matching selector in doc.
func extractItems[T any](tel telemetry.API, name string, doc htmlutil.Extractor, base *url.URL, selector string, extract itemFunc[T]) ([]keyed[T], error) {
	items := []keyed[T]{}
	for _, item := range doc.All(selector) {
		key, value, err := extract(item, base)
		if err != nil {
			return items, err
		}
		if key == "" {
			tel.ReportWarning(report_listing_untitled_item, name)
			continue
		}
		items = append(items, keyed[T]{key: key, value: value})
	}
	return items, nil
}

// walkListing fetches every page of l one after another and returns the
// items keyed by their natural key along with the keys in first-seen order.
func walkListing[T any](ctx context.Context, c *client, tel telemetry.API, l listing[T]) (map[string]T, []string, error) {
	fetch := func(ctx context.Context, page int) ([]keyed[T], error) {
		doc, err := c.document(ctx, l.link(page))
		if err != nil {
			return nil, err
		}
		items, err := extractItems(tel, l.name, htmlutil.FromDocument(doc), doc.Url, l.item, l.extract)
		if err != nil {
			return items, paginate.Abort(fmt.Errorf("%s page %d: %w", l.name, page, err))
		}
		return items, nil
	}

	result, err := paginate.Walk(ctx, l.opts, fetch, keyOf[T], pageReporter{tel: tel, listing: l.name})
	if len(result.Failed) > 0 {
		tel.ReportWarning(
			report_listing_pages_failed,
			fmt.Sprintf("%s: %d of %d pages failed %v", l.name, len(result.Failed), result.Fetched, result.Failed),
		)
	}
	out := make(map[string]T, len(result.Items))
	for k, item := range result.Items {
		out[k] = item.value
	}
	return out, result.Order, err
}
