package essentialfeed

import (
	"context"
	"net/url"

	"github.com/google/uuid"
)

// FeedImage is a single entry of the feed as consumed by the application.
type FeedImage struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	URL         url.URL
}

// FeedLoader delivers the current feed. The completion may be invoked on any goroutine.
type FeedLoader interface {
	Load(ctx context.Context, completion func([]FeedImage, error))
}
