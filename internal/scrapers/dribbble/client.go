package dribbble

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"dribbble-scraper/internal/components/assert"
	"dribbble-scraper/internal/components/telemetry"
	"dribbble-scraper/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// StatusError is returned for any response outside of 2xx.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from '%s'", e.Code, e.URL)
}

type client struct {
	baseUrl *url.URL
	http    *resty.Client
	cache   *pageCache

	tel telemetry.API
}

func newClient(cfg Config, tel telemetry.API, dump restyutil.InstrumentOutput) (*client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(cfg.BaseUrl)

	baseUrl, err := url.Parse(cfg.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !baseUrl.IsAbs() {
		return nil, fmt.Errorf("base url '%s' is not absolute", cfg.BaseUrl)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseUrl)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", cfg.UserAgent)
	// social links leave the site, so redirects may go to any domain
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(cfg.RedirectLimit))
	httpClient.SetTimeout(time.Second * time.Duration(cfg.TimeoutSeconds))

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.DumpMessages(httpClient, dump)

	return &client{
		baseUrl: baseUrl,
		http:    httpClient,
		cache:   newPageCache(),
		tel:     tel,
	}, nil
}

// link builds an absolute url on the site from a path and optional query.
func (c *client) link(path string, query url.Values) string {
	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.baseUrl.ResolveReference(ref).String()
}

func (c *client) profileLink(username string, section string) string {
	path := "/" + url.PathEscape(username)
	if section != "" {
		path += "/" + section
	}
	return c.link(path, nil)
}

func (c *client) listingLink(username, section string, page, perPage int) string {
	path := "/" + url.PathEscape(username) + "/" + section
	return c.link(path, url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	})
}

// page is a fetched response body.
type page struct {
	url    string
	status int
	body   []byte
}

func (p page) document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.body))
	if err != nil {
		return nil, fmt.Errorf("parse '%s': %w", p.url, err)
	}
	if doc.Url == nil {
		doc.Url, _ = url.Parse(p.url)
	}
	return doc, nil
}

func (p page) ok() bool {
	return p.status >= 200 && p.status < 300
}

func (c *client) fetch(ctx context.Context, link string) (page, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return page{}, fmt.Errorf("get '%s': %w", link, err)
	}

	final := link
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL.String()
	}
	return page{
		url:    final,
		status: res.StatusCode(),
		body:   res.Body(),
	}, nil
}

// document fetches and parses link. On a non-2xx response the parsed
// document is still returned alongside a *StatusError.
func (c *client) document(ctx context.Context, link string) (*goquery.Document, error) {
	p, err := c.fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	return documentOf(p)
}

// sharedDocument is document but the body is fetched at most once per run,
// concurrent callers for the same url wait on a single request.
func (c *client) sharedDocument(ctx context.Context, link string) (*goquery.Document, error) {
	p, err := c.cache.get(ctx, link, c.fetch)
	if err != nil {
		return nil, err
	}
	return documentOf(p)
}

func documentOf(p page) (*goquery.Document, error) {
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	if !p.ok() {
		return doc, &StatusError{Code: p.status, URL: p.url}
	}
	return doc, nil
}

// withPage sets the page query parameter of link, other parameters are kept.
func withPage(link string, page int) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
