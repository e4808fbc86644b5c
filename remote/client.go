package remote

import (
	"context"
	"io"
	"net/http"
)

// HTTPClient performs GET requests. The completion can be invoked on any goroutine;
// callers that need a particular goroutine must hand the result over themselves.
// Exactly one of err or (body, resp) is set.
type HTTPClient interface {
	Get(ctx context.Context, url string, completion func(body []byte, resp *http.Response, err error))
}

// NetHTTPClient is an HTTPClient backed by *http.Client.
type NetHTTPClient struct {
	client *http.Client
}

func (c *NetHTTPClient) Get(ctx context.Context, url string, completion func([]byte, *http.Response, error)) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		completion(nil, nil, err)
		return
	}

	go func() {
		resp, err := c.client.Do(req)
		if err != nil {
			completion(nil, nil, err)
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			completion(nil, nil, err)
			return
		}
		completion(body, resp, nil)
	}()
}

// NewNetHTTPClient wraps client. If client is nil, http.DefaultClient is used.
func NewNetHTTPClient(client *http.Client) *NetHTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &NetHTTPClient{client: client}
}
