// Package paginate walks numbered listing pages whose length is only known
// approximately, from a total count fetched beforehand.
package paginate

import (
	"context"
	"errors"
	"fmt"
)

// StopPolicy decides what happens when a page comes back empty.
type StopPolicy int

const (
	// Exhaust fetches every page up to the bound regardless of empty pages.
	Exhaust StopPolicy = iota
	// StopOnEmpty ends the walk at the first page without items.
	StopOnEmpty
)

func (p StopPolicy) String() string {
	switch p {
	case Exhaust:
		return "exhaust"
	case StopOnEmpty:
		return "stop-on-empty"
	}
	return fmt.Sprintf("StopPolicy(%d)", int(p))
}

// Options describe one listing.
type Options struct {
	// Total is the expected item count, usually scraped from another page.
	Total int
	// PageSize is the number of items a full page carries.
	PageSize int
	// Margin is added to the computed page bound since the listing may grow
	// between reading Total and walking the pages.
	Margin int
	// Start is the index of the first page, listings are either 0 or 1 indexed.
	Start int
	Stop  StopPolicy
}

// Bound returns the index of the last page to fetch (inclusive).
func (o Options) Bound() int {
	total := max(o.Total, 0)
	if o.PageSize <= 0 {
		return o.Margin
	}
	return total/o.PageSize + o.Margin
}

// PageFunc fetches and extracts a single page.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// KeyFunc returns the natural unique key of an item.
type KeyFunc[T any] func(item T) string

// Reporter receives progress and page faults.
type Reporter interface {
	Page(page, bound, items int)
	PageFailed(page int, err error)
}

// Result holds everything a walk produced.
type Result[T any] struct {
	// Items is keyed by KeyFunc, a later item overwrites an earlier one with
	// the same key.
	Items map[string]T
	// Order lists keys in the order they were first seen.
	Order []string
	// Fetched is the number of pages requested.
	Fetched int
	// Failed lists the pages whose fetch returned an error.
	Failed []int
}

type abortError struct {
	err error
}

func (e abortError) Error() string {
	return e.err.Error()
}

func (e abortError) Unwrap() error {
	return e.err
}

// Abort marks a page error as fatal to the whole walk, Walk stops and
// returns err (unwrapped) along with what it collected so far.
func Abort(err error) error {
	if err == nil {
		return nil
	}
	return abortError{err: err}
}

// Walk requests pages Start..Bound sequentially, one page awaited before the
// next is requested. A failed page is reported and skipped, it does not count
// as an empty page unless it was wrapped with Abort. Walk returns early with
// ctx.Err() when ctx is done.
func Walk[T any](ctx context.Context, opts Options, fetch PageFunc[T], key KeyFunc[T], reporter Reporter) (Result[T], error) {
	result := Result[T]{Items: map[string]T{}, Order: []string{}}
	bound := opts.Bound()

	for page := opts.Start; page <= bound; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Fetched++
		items, err := fetch(ctx, page)
		var abort abortError
		if errors.As(err, &abort) {
			result.Failed = append(result.Failed, page)
			return result, abort.err
		}
		if err != nil {
			result.Failed = append(result.Failed, page)
			if reporter != nil {
				reporter.PageFailed(page, err)
			}
			continue
		}
		if reporter != nil {
			reporter.Page(page, bound, len(items))
		}

		if len(items) == 0 && opts.Stop == StopOnEmpty {
			break
		}

		for _, item := range items {
			k := key(item)
			if _, seen := result.Items[k]; !seen {
				result.Order = append(result.Order, k)
			}
			result.Items[k] = item
		}
	}

	return result, nil
}
