// Package redirect resolves outbound links (ex. a profile's social links that
// bounce through the site's own redirector) to where they end up.
package redirect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultMarkers identify login pages and auth walls, a chain ending on one of
// them resolves to the hop before it.
var DefaultMarkers = []string{"login", "authwall"}

var ErrEmptyChain = errors.New("redirect chain is empty")

// Destination is a resolved link.
type Destination struct {
	// URL is the chosen hop, see Choose.
	URL string
	// Host is the host of the final response, even when URL is an earlier hop.
	Host string
	// Chain is every URL visited in order, the final URL last.
	Chain []string
}

// Resolver follows redirects with the given client, the number of hops is
// bounded by the client's own redirect policy.
type Resolver struct {
	http    *resty.Client
	markers []string
}

func New(client *resty.Client, markers []string) Resolver {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return Resolver{http: client, markers: markers}
}

func (r Resolver) Resolve(ctx context.Context, link string) (Destination, error) {
	res, err := r.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(link)
	if err != nil {
		return Destination{}, fmt.Errorf("resolve '%s': %w", link, err)
	}
	if body := res.RawBody(); body != nil {
		body.Close()
	}
	if res.RawResponse == nil || res.RawResponse.Request == nil {
		return Destination{}, fmt.Errorf("resolve '%s': %w", link, ErrEmptyChain)
	}

	final := res.RawResponse.Request
	chain := Chain(final)
	return Destination{
		URL:   Choose(chain, r.markers),
		Host:  final.URL.Hostname(),
		Chain: chain,
	}, nil
}

// Chain walks back from the final request of a redirected exchange and
// returns every requested URL, oldest first.
func Chain(final *http.Request) []string {
	var reversed []string
	for req := final; req != nil; {
		reversed = append(reversed, req.URL.String())
		if req.Response == nil {
			break
		}
		req = req.Response.Request
	}

	chain := make([]string, len(reversed))
	for i, u := range reversed {
		chain[len(reversed)-1-i] = u
	}
	return chain
}

// Choose returns the last URL of chain unless it contains one of markers, in
// which case the second to last is returned. A single-entry chain always
// resolves to that entry.
func Choose(chain []string, markers []string) string {
	if len(chain) == 0 {
		return ""
	}
	last := chain[len(chain)-1]
	if len(chain) < 2 {
		return last
	}
	for _, m := range markers {
		if strings.Contains(last, m) {
			return chain[len(chain)-2]
		}
	}
	return last
}

// NetworkName turns a destination host into a short network name,
// ex. "www.instagram.com" -> "instagram".
func NetworkName(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return parts[len(parts)-2]
}
