// Package remote loads the feed from the network.
package remote

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

var (
	// ErrConnectivity is delivered when the HTTP client fails.
	ErrConnectivity = errors.New("connectivity error")

	// ErrInvalidData is delivered when the response cannot be mapped to a feed.
	ErrInvalidData = errors.New("invalid data")
)

// RemoteFeedLoader fetches the feed from a fixed URL.
//
// Once Close has been called, responses that arrive afterwards are dropped and the
// caller's completion is not invoked.
type RemoteFeedLoader struct {
	client HTTPClient
	url    string

	released atomic.Bool
}

var _ essentialfeed.FeedLoader = (*RemoteFeedLoader)(nil)

func (l *RemoteFeedLoader) Load(ctx context.Context, completion func([]essentialfeed.FeedImage, error)) {
	l.client.Get(ctx, l.url, func(body []byte, resp *http.Response, err error) {
		if l.released.Load() {
			return
		}

		if err != nil {
			completion(nil, ErrConnectivity)
			return
		}

		items, err := MapItems(body, resp.StatusCode)
		if err != nil {
			completion(nil, err)
			return
		}

		completion(toModels(items))
	})
}

// Close releases the loader. In-flight requests are not canceled; their results are ignored.
func (l *RemoteFeedLoader) Close() {
	l.released.Store(true)
}

func NewRemoteFeedLoader(client HTTPClient, url string) *RemoteFeedLoader {
	return &RemoteFeedLoader{client: client, url: url}
}
