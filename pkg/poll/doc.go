// Package poll drives asynchronously completed operations to a terminal
// state. It is written once against a snapshot type and a terminal
// predicate, so every operation variant shares the same wait semantics
// instead of reimplementing its own loop.
//
// The reload function is injected by the caller, which keeps the poller
// free of any transport or domain knowledge:
//
//	final, err := poll.Until(ctx, transfer, "transfer",
//	    func(t *Transfer) bool { return t.Status().Terminal() },
//	    func(ctx context.Context) (*Transfer, error) {
//	        return t, t.Reload(ctx)
//	    },
//	    poll.WithTimeout(30*time.Second),
//	)
//
// A *TimeoutError is reported rather than fatal: the operation snapshot
// returned with it reflects all progress made so far and remains usable
// for inspection or a later retry.
package poll
