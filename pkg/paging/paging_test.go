package paging_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/paging"
)

// pageScript replays a fixed sequence of pages and records the cursors
// and limits it was asked for.
type pageScript struct {
	pages   []paging.Page[string]
	cursors []string
	limits  []int
}

func (s *pageScript) fetch(ctx context.Context, cursor string, limit int) (paging.Page[string], error) {
	s.cursors = append(s.cursors, cursor)
	s.limits = append(s.limits, limit)

	if len(s.pages) == 0 {
		return paging.Page[string]{}, fmt.Errorf("unexpected fetch for cursor %q", cursor)
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, nil
}

func TestAll_DrainsAllPages(t *testing.T) {
	script := &pageScript{
		pages: []paging.Page[string]{
			{Data: []string{"a", "b"}, HasMore: true, NextPage: "cursor-1"},
			{Data: []string{"c", "d"}, HasMore: true, NextPage: "cursor-2"},
			{Data: []string{"e"}, HasMore: false},
		},
	}

	items, err := paging.All(context.Background(), script.fetch)
	require.NoError(t, err)

	// Result order is the concatenation of page order.
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
	assert.Equal(t, []string{"", "cursor-1", "cursor-2"}, script.cursors)
}

func TestAll_SinglePage(t *testing.T) {
	script := &pageScript{
		pages: []paging.Page[string]{
			{Data: []string{"only"}, HasMore: false, NextPage: "stale-cursor"},
		},
	}

	items, err := paging.All(context.Background(), script.fetch)
	require.NoError(t, err)

	assert.Equal(t, []string{"only"}, items)
	assert.Len(t, script.cursors, 1)
}

func TestAll_StopsOnMissingCursor(t *testing.T) {
	// has_more with no cursor must end the walk rather than loop forever.
	script := &pageScript{
		pages: []paging.Page[string]{
			{Data: []string{"a", "b"}, HasMore: true, NextPage: ""},
		},
	}

	items, err := paging.All(context.Background(), script.fetch)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, items)
	assert.Len(t, script.cursors, 1)
}

func TestAll_EmptyCollection(t *testing.T) {
	script := &pageScript{
		pages: []paging.Page[string]{
			{Data: nil, HasMore: false},
		},
	}

	items, err := paging.All(context.Background(), script.fetch)
	require.NoError(t, err)

	assert.Empty(t, items)
	assert.Len(t, script.cursors, 1)
}

func TestAll_FetchErrorPropagates(t *testing.T) {
	fetchErr := fmt.Errorf("boom")
	calls := 0
	fetch := func(ctx context.Context, cursor string, limit int) (paging.Page[string], error) {
		calls++
		if calls == 1 {
			return paging.Page[string]{Data: []string{"a"}, HasMore: true, NextPage: "cursor-1"}, nil
		}
		return paging.Page[string]{}, fetchErr
	}

	items, err := paging.All(context.Background(), fetch)
	require.ErrorIs(t, err, fetchErr)
	assert.Nil(t, items)
	assert.Equal(t, 2, calls)
}

func TestAll_PageSize(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		script := &pageScript{pages: []paging.Page[string]{{HasMore: false}}}

		_, err := paging.All(context.Background(), script.fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{paging.DefaultPageSize}, script.limits)
	})

	t.Run("custom", func(t *testing.T) {
		script := &pageScript{pages: []paging.Page[string]{{HasMore: false}}}

		_, err := paging.All(context.Background(), script.fetch, paging.WithPageSize(25))
		require.NoError(t, err)
		assert.Equal(t, []int{25}, script.limits)
	})

	t.Run("invalid falls back to default", func(t *testing.T) {
		script := &pageScript{pages: []paging.Page[string]{{HasMore: false}}}

		_, err := paging.All(context.Background(), script.fetch, paging.WithPageSize(-1))
		require.NoError(t, err)
		assert.Equal(t, []int{paging.DefaultPageSize}, script.limits)
	})
}
