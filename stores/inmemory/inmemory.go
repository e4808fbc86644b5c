// Package inmemory provides a FeedStore that keeps the cache in process memory.
package inmemory

import (
	"context"
	"slices"
	"time"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/stores"
)

// Store keeps at most one CachedFeed in memory. The slot is only touched from the
// queue's worker goroutine, so it needs no lock of its own.
type Store struct {
	cache *essentialfeed.CachedFeed

	queue *stores.SerialQueue
}

var _ essentialfeed.FeedStore = (*Store)(nil)

func (s *Store) Retrieve(_ context.Context, completion essentialfeed.RetrievalCompletion) {
	if !s.queue.Dispatch(func() {
		if s.cache == nil {
			completion(nil, nil)
			return
		}
		completion(copyCache(s.cache), nil)
	}) {
		completion(nil, stores.ErrStoreClosed)
	}
}

func (s *Store) Insert(
	_ context.Context,
	feed []essentialfeed.LocalFeedImage,
	timestamp time.Time,
	completion essentialfeed.InsertionCompletion,
) {
	cache := copyCache(&essentialfeed.CachedFeed{Feed: feed, Timestamp: timestamp})

	if !s.queue.Dispatch(func() {
		s.cache = cache
		completion(nil)
	}) {
		completion(stores.ErrStoreClosed)
	}
}

func (s *Store) DeleteCachedFeed(_ context.Context, completion essentialfeed.DeletionCompletion) {
	if !s.queue.Dispatch(func() {
		s.cache = nil
		completion(nil)
	}) {
		completion(stores.ErrStoreClosed)
	}
}

// Close waits for pending operations and stops the store's worker.
func (s *Store) Close() error {
	s.queue.Close()
	return nil
}

func copyCache(c *essentialfeed.CachedFeed) *essentialfeed.CachedFeed {
	return &essentialfeed.CachedFeed{
		Feed:      slices.Clone(c.Feed),
		Timestamp: c.Timestamp,
	}
}

func New() *Store {
	return &Store{
		queue: stores.NewSerialQueue(),
	}
}
