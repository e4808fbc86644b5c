package essentialfeed

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// LocalFeedLoader saves, loads and validates the cached feed held by a FeedStore.
// It owns no persistent state: the store and the clock are injected at construction
// and never change afterwards.
//
// Once Close has been called, store callbacks that are still pending become no-ops:
// the caller's completion is not invoked and no follow-up store command is issued.
type LocalFeedLoader struct {
	store  FeedStore
	policy CachePolicy
	logger *slog.Logger
	now    func() time.Time

	released atomic.Bool
}

var _ FeedLoader = (*LocalFeedLoader)(nil)

// Save replaces the cached feed. The current cache is deleted first; the new feed is
// inserted only if the deletion succeeded, stamped with the clock's value at that moment.
// The completion receives the deletion or insertion error unchanged.
func (l *LocalFeedLoader) Save(ctx context.Context, feed []FeedImage, completion func(error)) {
	l.store.DeleteCachedFeed(ctx, func(err error) {
		if l.isReleased() {
			return
		}

		if err != nil {
			l.logger.DebugContext(ctx, "cache deletion failed, feed not saved", "error", err)
			completion(err)
			return
		}

		l.cache(ctx, feed, completion)
	})
}

func (l *LocalFeedLoader) cache(ctx context.Context, feed []FeedImage, completion func(error)) {
	timestamp := l.now()

	l.logger.DebugContext(ctx, "inserting feed into cache",
		"items", len(feed),
		"timestamp", timestamp.Format(time.RFC3339))

	l.store.Insert(ctx, toLocal(feed), timestamp, func(err error) {
		if l.isReleased() {
			return
		}

		completion(err)
	})
}

// Load delivers the cached feed if it is still valid. An absent or expired cache yields
// an empty feed; a retrieval error is delivered unchanged. Load never modifies the store.
func (l *LocalFeedLoader) Load(ctx context.Context, completion func([]FeedImage, error)) {
	l.store.Retrieve(ctx, func(cache *CachedFeed, err error) {
		if l.isReleased() {
			return
		}

		switch {
		case err != nil:
			completion(nil, err)
		case cache == nil:
			l.logger.DebugContext(ctx, "cache empty")
			completion(nil, nil)
		case !l.policy.Validate(cache.Timestamp, l.now()):
			l.logger.DebugContext(ctx, "cache expired",
				"timestamp", cache.Timestamp.Format(time.RFC3339))
			completion(nil, nil)
		default:
			l.logger.DebugContext(ctx, "cache hit", "items", len(cache.Feed))
			completion(toModels(cache.Feed), nil)
		}
	})
}

// ValidateCache deletes the cached feed when it cannot be retrieved or has expired.
// The outcome of that deletion is only logged.
func (l *LocalFeedLoader) ValidateCache(ctx context.Context) {
	l.store.Retrieve(ctx, func(cache *CachedFeed, err error) {
		if l.isReleased() {
			return
		}

		switch {
		case err != nil:
			l.logger.DebugContext(ctx, "cache retrieval failed, deleting cache", "error", err)
		case cache == nil:
			return
		case l.policy.Validate(cache.Timestamp, l.now()):
			return
		default:
			l.logger.DebugContext(ctx, "cache expired, deleting cache",
				"timestamp", cache.Timestamp.Format(time.RFC3339))
		}

		l.store.DeleteCachedFeed(ctx, func(err error) {
			if err != nil {
				l.logger.WarnContext(ctx, "error deleting invalid cache", "error", err)
			}
		})
	})
}

// Close releases the loader. Callbacks from the store that fire afterwards are ignored.
// Close does not close the underlying store.
func (l *LocalFeedLoader) Close() {
	l.released.Store(true)
}

func (l *LocalFeedLoader) isReleased() bool {
	return l.released.Load()
}

// NewLocalFeedLoader creates a loader backed by store.
//
// If opts is nil, DefaultConfig is used.
// If the 'now' function is nil, time.Now will be used as the default time provider.
// If the 'logger' is nil, a no-op logger writing to io.Discard will be used.
//
// Returns a ValidationError if store is nil or the configured max cache age is not positive.
func NewLocalFeedLoader(
	store FeedStore,
	opts *Config,
	now func() time.Time,
	logger *slog.Logger,
) (*LocalFeedLoader, error) {
	if store == nil {
		return nil, ValidationError{Reason: "nil store"}
	}

	c := DefaultConfig()
	if opts != nil {
		c = *opts
	}

	if c.MaxCacheAge <= 0 {
		return nil, ValidationError{Reason: "max cache age must be positive"}
	}

	nowFunc := now
	if nowFunc == nil {
		nowFunc = time.Now
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &LocalFeedLoader{
		store:  store,
		policy: CachePolicy{MaxAge: c.MaxCacheAge},
		logger: logger,
		now:    nowFunc,
	}, nil
}
