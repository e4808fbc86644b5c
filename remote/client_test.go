package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitkabu/EssentialFeed/remote"
)

type getResult struct {
	body []byte
	resp *http.Response
	err  error
}

func get(t *testing.T, client *remote.NetHTTPClient, ctx context.Context, url string) getResult {
	t.Helper()

	done := make(chan getResult, 1)
	client.Get(ctx, url, func(body []byte, resp *http.Response, err error) {
		done <- getResult{body, resp, err}
	})

	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
		return getResult{}
	}
}

func TestNetHTTPClientPerformsGETRequestWithURL(t *testing.T) {
	requests := make(chan *http.Request, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	get(t, remote.NewNetHTTPClient(server.Client()), context.Background(), server.URL+"/feed")

	r := <-requests
	assert.Equal(t, http.MethodGet, r.Method)
	assert.Equal(t, "/feed", r.URL.Path)
}

func TestNetHTTPClientDeliversBodyAndResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non-empty body", status: http.StatusOK, body: "any data"},
		{name: "empty body", status: http.StatusOK, body: ""},
		{name: "non 200 status", status: http.StatusTeapot, body: "tea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r := get(t, remote.NewNetHTTPClient(server.Client()), context.Background(), server.URL)

			require.NoError(t, r.err)
			require.NotNil(t, r.resp)
			assert.Equal(t, tt.status, r.resp.StatusCode)
			assert.Equal(t, tt.body, string(r.body))
		})
	}
}

func TestNetHTTPClientFailsOnRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	r := get(t, remote.NewNetHTTPClient(nil), context.Background(), url)

	assert.Error(t, r.err)
	assert.Nil(t, r.resp)
	assert.Nil(t, r.body)
}

func TestNetHTTPClientFailsOnCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := get(t, remote.NewNetHTTPClient(server.Client()), ctx, server.URL)

	assert.ErrorIs(t, r.err, context.Canceled)
}

func TestNetHTTPClientFailsOnInvalidURL(t *testing.T) {
	r := get(t, remote.NewNetHTTPClient(nil), context.Background(), "://bad")

	assert.Error(t, r.err)
}
