package page_test

import (
	"testing"

	"github.com/kestrelhq/workstats/internal/page"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, page.DefaultOptions().Validate())

	bad := []page.Options{
		{Page: 0, Limit: 10, Order: page.OrderDesc},
		{Page: 1, Limit: 0, Order: page.OrderDesc},
		{Page: 1, Limit: page.MaxLimit + 1, Order: page.OrderDesc},
		{Page: 1, Limit: 10, Order: "sideways"},
	}
	for _, opts := range bad {
		require.ErrorIs(t, opts.Validate(), page.ErrInvalidOptions)
	}
}

func TestOptionsSkip(t *testing.T) {
	opts := page.Options{Page: 3, Limit: 25, Order: page.OrderAsc}
	require.Equal(t, 50, opts.Skip())
}

func TestSliceClampsBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	require.Equal(t, []int{1, 2, 3}, page.Slice(items, 0, 3))
	require.Equal(t, []int{4, 5}, page.Slice(items, 3, 10))
	require.Empty(t, page.Slice(items, 5, 10))
	require.Empty(t, page.Slice(items, 100, 10))
}

func TestNewMeta(t *testing.T) {
	opts := page.Options{Page: 2, Limit: 10, Order: page.OrderDesc}
	meta := page.NewMeta(opts, 10, 500)

	require.Equal(t, 2, meta.Page)
	require.Equal(t, 10, meta.ItemCount)
	require.Equal(t, int64(500), meta.TotalCount)
	require.Equal(t, 1, meta.PageCount)
	require.True(t, meta.HasPreviousPage)
	require.False(t, meta.HasNextPage)
}

func TestNewMetaEmptySlice(t *testing.T) {
	meta := page.NewMeta(page.DefaultOptions(), 0, 0)

	require.Zero(t, meta.ItemCount)
	require.Zero(t, meta.PageCount)
	require.False(t, meta.HasPreviousPage)
	require.False(t, meta.HasNextPage)
}

func TestNewPageNeverNilData(t *testing.T) {
	p := page.New[string](nil, page.NewMeta(page.DefaultOptions(), 0, 0))
	require.NotNil(t, p.Data)
	require.Empty(t, p.Data)
}
