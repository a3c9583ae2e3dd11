package dribbble

import (
	"context"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/sync/singleflight"
)

// pageCache keeps response bodies for the lifetime of a single scrape.
type pageCache struct {
	group singleflight.Group

	mutex sync.RWMutex
	pages map[string]page
}

func newPageCache() *pageCache {
	return &pageCache{pages: map[string]page{}}
}

func cacheKey(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	return purell.NormalizeURL(
		parsed,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
}

func (c *pageCache) lookup(key string) (page, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	p, ok := c.pages[key]
	return p, ok
}

// get returns the cached page for link or fetches it. Failed fetches are not
// cached, the next caller tries again.
func (c *pageCache) get(ctx context.Context, link string, fetch func(context.Context, string) (page, error)) (page, error) {
	key := cacheKey(link)
	if p, ok := c.lookup(key); ok {
		return p, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if p, ok := c.lookup(key); ok {
			return p, nil
		}
		p, err := fetch(ctx, link)
		if err != nil {
			return page{}, err
		}
		c.mutex.Lock()
		c.pages[key] = p
		c.mutex.Unlock()
		return p, nil
	})
	if err != nil {
		return page{}, err
	}
	return result.(page), nil
}

func (c *pageCache) len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.pages)
}
