package dribbble

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dribbble-scraper/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestClientLinks(t *testing.T) {
	cfg := DefaultConfig()
	c, err := newClient(cfg, telemetry.NewTestAPI(t), nil)
	require.NoError(t, err)

	require.Equal(t, "https://dribbble.com/jane", c.profileLink("jane", ""))
	require.Equal(t, "https://dribbble.com/jane/about", c.profileLink("jane", "about"))
	require.Equal(t, "https://dribbble.com/jane/shots?page=2&per_page=8", c.listingLink("jane", "shots", 2, 8))
	require.Equal(t, "https://dribbble.com/jane/projects/1-brand?page=3", withPage("https://dribbble.com/jane/projects/1-brand", 3))
	require.Equal(t, "https://dribbble.com/x?page=2&sort=new", withPage("https://dribbble.com/x?sort=new&page=1", 2))

	_, err = newClient(Config{BaseUrl: "/relative"}, telemetry.NewTestAPI(t), nil)
	require.Error(t, err)
}

func TestClientStatusError(t *testing.T) {
	s := newSite(t)
	s.handle("/ok", 200, "empty.html")
	cfg := DefaultConfig()
	cfg.BaseUrl = s.server.URL
	c, err := newClient(cfg, telemetry.NewTestAPI(t), nil)
	require.NoError(t, err)

	doc, err := c.document(context.Background(), s.link("/ok"))
	require.NoError(t, err)
	require.Equal(t, s.link("/ok"), doc.Url.String())

	doc, err = c.document(context.Background(), s.link("/missing"))
	require.NotNil(t, doc)
	var status *StatusError
	require.True(t, errors.As(err, &status))
	require.Equal(t, 404, status.Code)
}

func TestPageCacheCoalesces(t *testing.T) {
	cache := newPageCache()

	var mutex sync.Mutex
	calls := 0
	fetch := func(_ context.Context, link string) (page, error) {
		mutex.Lock()
		calls++
		mutex.Unlock()
		return page{url: link, status: 200, body: []byte("<p>hi</p>")}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := cache.get(context.Background(), "https://dribbble.com/jane", fetch)
			require.NoError(t, err)
			require.Equal(t, 200, p.status)
		}()
	}
	wg.Wait()

	// normalization maps these onto the same entry
	_, err := cache.get(context.Background(), "https://DRIBBBLE.com/jane#top", fetch)
	require.NoError(t, err)

	require.Equal(t, 1, calls)
	require.Equal(t, 1, cache.len())
}

func TestPageCacheSkipsFailures(t *testing.T) {
	cache := newPageCache()
	failing := func(context.Context, string) (page, error) {
		return page{}, errors.New("connection reset")
	}
	_, err := cache.get(context.Background(), "https://dribbble.com/jane", failing)
	require.Error(t, err)
	require.Equal(t, 0, cache.len())
}
