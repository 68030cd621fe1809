// Package paging drains cursor-paginated collections. Every list endpoint
// of the platform shares one envelope — a data slice, a has_more flag and
// an opaque continuation cursor — so the aggregation loop is written once
// and fed a page-fetching function by each domain collaborator:
//
//	transfers, err := paging.All(ctx,
//	    func(ctx context.Context, cursor string, limit int) (paging.Page[Transfer], error) {
//	        return client.transferPage(ctx, cursor, limit)
//	    },
//	    paging.WithPageSize(50),
//	)
package paging
