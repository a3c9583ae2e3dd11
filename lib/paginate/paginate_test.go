package paginate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	key   string
	value int
}

func itemKey(i item) string {
	return i.key
}

type recorder struct {
	pages  []int
	failed []int
}

func (r *recorder) Page(page, bound, items int) {
	r.pages = append(r.pages, page)
}

func (r *recorder) PageFailed(page int, err error) {
	r.failed = append(r.failed, page)
}

func TestBound(t *testing.T) {
	require.Equal(t, 7, Options{Total: 20, PageSize: 8, Margin: 5}.Bound())
	require.Equal(t, 1, Options{Total: 5, PageSize: 6, Margin: 1}.Bound())
	require.Equal(t, 2, Options{Total: 6, PageSize: 6, Margin: 1}.Bound())
	require.Equal(t, 5, Options{Total: 0, PageSize: 8, Margin: 5}.Bound())
	require.Equal(t, 5, Options{Total: -4, PageSize: 8, Margin: 5}.Bound())
	require.Equal(t, 1, Options{Total: 10, PageSize: 0, Margin: 1}.Bound())
}

func TestWalkExhaust(t *testing.T) {
	var requested []int
	fetch := func(_ context.Context, page int) ([]item, error) {
		requested = append(requested, page)
		if page > 2 {
			return nil, nil
		}
		return []item{{key: fmt.Sprintf("p%d", page), value: page}}, nil
	}

	rec := &recorder{}
	result, err := Walk(
		context.Background(),
		Options{Total: 20, PageSize: 8, Margin: 5, Start: 0, Stop: Exhaust},
		fetch, itemKey, rec,
	)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, requested)
	require.Equal(t, 8, result.Fetched)
	require.Equal(t, []string{"p0", "p1", "p2"}, result.Order)
	require.Len(t, rec.pages, 8)
}

func TestWalkStopOnEmpty(t *testing.T) {
	var requested []int
	fetch := func(_ context.Context, page int) ([]item, error) {
		requested = append(requested, page)
		if page >= 3 {
			return []item{}, nil
		}
		return []item{{key: fmt.Sprintf("m%d", page)}}, nil
	}

	result, err := Walk(
		context.Background(),
		Options{Total: 20, PageSize: 2, Margin: 1, Start: 1, Stop: StopOnEmpty},
		fetch, itemKey, nil,
	)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, requested)
	require.Equal(t, 3, result.Fetched)
	require.Len(t, result.Items, 2)
}

func TestWalkLastWriteWins(t *testing.T) {
	fetch := func(_ context.Context, page int) ([]item, error) {
		return []item{{key: "Mobile", value: page}}, nil
	}

	result, err := Walk(
		context.Background(),
		Options{Total: 2, PageSize: 1, Margin: 0, Start: 1},
		fetch, itemKey, nil,
	)
	require.NoError(t, err)
	require.Equal(t, []string{"Mobile"}, result.Order)
	require.Equal(t, 2, result.Items["Mobile"].value)
}

func TestWalkFailedPagesAreSkipped(t *testing.T) {
	fetch := func(_ context.Context, page int) ([]item, error) {
		if page == 1 {
			return nil, errors.New("connection reset")
		}
		return []item{{key: fmt.Sprintf("m%d", page)}}, nil
	}

	rec := &recorder{}
	result, err := Walk(
		context.Background(),
		Options{Total: 3, PageSize: 1, Margin: 0, Start: 0, Stop: StopOnEmpty},
		fetch, itemKey, rec,
	)
	require.NoError(t, err)
	require.Equal(t, []int{1}, result.Failed)
	require.Equal(t, []int{1}, rec.failed)
	require.Equal(t, []string{"m0", "m2", "m3"}, result.Order)
}

func TestWalkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetch := func(_ context.Context, page int) ([]item, error) {
		if page == 1 {
			cancel()
		}
		return []item{{key: fmt.Sprintf("s%d", page)}}, nil
	}

	result, err := Walk(ctx, Options{Total: 80, PageSize: 8, Margin: 5}, fetch, itemKey, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, result.Fetched)
}

func TestWalkAbort(t *testing.T) {
	errDate := errors.New("unknown date format")
	rec := &recorder{}
	result, err := Walk(
		context.Background(),
		Options{Total: 16, PageSize: 8, Margin: 1, Start: 1},
		func(ctx context.Context, page int) ([]item, error) {
			if page == 2 {
				return nil, Abort(fmt.Errorf("page %d: %w", page, errDate))
			}
			return []item{{key: fmt.Sprint(page), value: page}}, nil
		},
		itemKey,
		rec,
	)
	require.ErrorIs(t, err, errDate)
	require.Equal(t, []string{"1"}, result.Order)
	require.Equal(t, 2, result.Fetched)
	require.Equal(t, []int{2}, result.Failed)
	require.Empty(t, rec.failed)
	require.Nil(t, Abort(nil))
}
