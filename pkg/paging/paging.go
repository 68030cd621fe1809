package paging

import "context"

// DefaultPageSize is the page size requested when the caller does not
// override it.
const DefaultPageSize = 100

// Page is one page of a cursor-paginated collection, in the envelope the
// platform returns for every list endpoint. An empty NextPage means the
// server supplied no continuation cursor.
type Page[T any] struct {
	Data     []T    `json:"data"`
	HasMore  bool   `json:"has_more"`
	NextPage string `json:"next_page"`
}

// FetchFunc retrieves a single page. An empty cursor requests the first
// page; limit is the requested page size.
type FetchFunc[T any] func(ctx context.Context, cursor string, limit int) (Page[T], error)

type config struct {
	pageSize int
}

// Option configures a single All invocation.
type Option func(*config)

// WithPageSize sets the page size requested from the server.
func WithPageSize(size int) Option {
	return func(c *config) {
		c.pageSize = size
	}
}

// All drains a cursor-paginated collection into one ordered slice.
//
// Pending cursors form a queue seeded with the first-page marker. Each
// iteration pops a cursor, fetches its page, and appends the items in
// server order; the overall result is the concatenation of pages, never
// re-sorted, and every item is visited exactly once. A follow-up cursor
// is queued only when the page both reports has_more and carries a
// non-empty next cursor: a page that claims more data without a cursor
// ends the walk, since trusting has_more alone would loop forever on a
// malformed response.
//
// A fetch error aborts the walk and propagates unchanged.
func All[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) ([]T, error) {
	cfg := config{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pageSize <= 0 {
		cfg.pageSize = DefaultPageSize
	}

	var all []T
	queue := []string{""}
	for len(queue) > 0 {
		cursor := queue[0]
		queue = queue[1:]

		page, err := fetch(ctx, cursor, cfg.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)

		if page.HasMore && page.NextPage != "" {
			queue = append(queue, page.NextPage)
		}
	}
	return all, nil
}
