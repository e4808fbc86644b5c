// Package stores holds the pieces shared by the essentialfeed.FeedStore backends.
package stores

import (
	"context"
	"time"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

var (
	// DefaultItemExpiration is how long backends with native TTL keep an abandoned cache.
	DefaultItemExpiration = 2 * essentialfeed.DefaultMaxCacheAge

	// DefaultOperationTimeout bounds a single backend operation when the caller's
	// context carries no deadline.
	DefaultOperationTimeout = 30 * time.Second
)

// OperationContext derives the context a backend operation runs with.
func OperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultOperationTimeout)
}
