package essentialfeed

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// LocalFeedImage is the persisted representation of a FeedImage.
type LocalFeedImage struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	URL         url.URL
}

// CachedFeed is one generation of cached data.
type CachedFeed struct {
	Feed      []LocalFeedImage
	Timestamp time.Time
}

type (
	DeletionCompletion  func(error)
	InsertionCompletion func(error)
	// RetrievalCompletion receives (nil, nil) when the store holds no cache.
	RetrievalCompletion func(*CachedFeed, error)
)

// FeedStore is a single-slot store for a CachedFeed.
//
// Every completion is invoked exactly once, possibly on another goroutine. Operations
// submitted to the same store execute one at a time and complete in submission order.
type FeedStore interface {
	// DeleteCachedFeed removes the stored cache. Deleting an empty store succeeds.
	DeleteCachedFeed(ctx context.Context, completion DeletionCompletion)

	// Insert replaces whatever is currently stored.
	Insert(ctx context.Context, feed []LocalFeedImage, timestamp time.Time, completion InsertionCompletion)

	Retrieve(ctx context.Context, completion RetrievalCompletion)
}

func toLocal(feed []FeedImage) []LocalFeedImage {
	local := make([]LocalFeedImage, 0, len(feed))
	for _, f := range feed {
		local = append(local, LocalFeedImage(f))
	}
	return local
}

func toModels(local []LocalFeedImage) []FeedImage {
	models := make([]FeedImage, 0, len(local))
	for _, l := range local {
		models = append(models, FeedImage(l))
	}
	return models
}
