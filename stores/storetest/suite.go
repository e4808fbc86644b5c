// Package storetest provides a conformance suite for essentialfeed.FeedStore
// implementations.
package storetest

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

// Timeout bounds how long the suite waits for a single completion.
var Timeout = 5 * time.Second

// Factory returns a fresh, empty store for one subtest. Cleanup is the factory's job.
type Factory func(t *testing.T) essentialfeed.FeedStore

// TestFeedStore runs every behavior a FeedStore must exhibit.
func TestFeedStore(t *testing.T, newStore Factory) {
	t.Run("RetrieveDeliversEmptyOnEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		expectEmpty(t, sut)
	})
	t.Run("RetrieveHasNoSideEffectsOnEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		expectEmpty(t, sut)
		expectEmpty(t, sut)
	})
	t.Run("RetrieveDeliversFoundValuesOnNonEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		feed, timestamp := UniqueFeed(), Timestamp()

		require.NoError(t, Insert(t, sut, feed, timestamp))
		expectFound(t, sut, feed, timestamp)
	})
	t.Run("RetrieveHasNoSideEffectsOnNonEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		feed, timestamp := UniqueFeed(), Timestamp()

		require.NoError(t, Insert(t, sut, feed, timestamp))
		expectFound(t, sut, feed, timestamp)
		expectFound(t, sut, feed, timestamp)
	})
	t.Run("InsertDeliversNoErrorOnEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		assert.NoError(t, Insert(t, sut, UniqueFeed(), Timestamp()))
	})
	t.Run("InsertDeliversNoErrorOnNonEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		require.NoError(t, Insert(t, sut, UniqueFeed(), Timestamp()))
		assert.NoError(t, Insert(t, sut, UniqueFeed(), Timestamp()), "expected to override cache successfully")
	})
	t.Run("InsertOverridesPreviouslyInsertedCacheValues", func(t *testing.T) {
		sut := newStore(t)
		require.NoError(t, Insert(t, sut, UniqueFeed(), Timestamp()))

		latestFeed, latestTimestamp := UniqueFeed(), Timestamp().Add(time.Second)
		require.NoError(t, Insert(t, sut, latestFeed, latestTimestamp))

		expectFound(t, sut, latestFeed, latestTimestamp)
	})
	t.Run("DeleteDeliversNoErrorOnEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		assert.NoError(t, Delete(t, sut), "expected empty cache deletion to succeed")
	})
	t.Run("DeleteHasNoSideEffectsOnEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		require.NoError(t, Delete(t, sut))
		expectEmpty(t, sut)
	})
	t.Run("DeleteDeliversNoErrorOnNonEmptyCache", func(t *testing.T) {
		sut := newStore(t)
		require.NoError(t, Insert(t, sut, UniqueFeed(), Timestamp()))
		assert.NoError(t, Delete(t, sut), "expected non-empty cache deletion to succeed")
	})
	t.Run("DeleteEmptiesPreviouslyInsertedCache", func(t *testing.T) {
		sut := newStore(t)
		require.NoError(t, Insert(t, sut, UniqueFeed(), Timestamp()))
		require.NoError(t, Delete(t, sut))
		expectEmpty(t, sut)
	})
	t.Run("StoreSideEffectsRunSerially", func(t *testing.T) {
		sut := newStore(t)
		testSerialSideEffects(t, sut)
	})
}

func testSerialSideEffects(t *testing.T, sut essentialfeed.FeedStore) {
	ctx := context.Background()
	completed := make(chan string, 3)

	sut.Insert(ctx, UniqueFeed(), Timestamp(), func(error) { completed <- "insert" })
	sut.DeleteCachedFeed(ctx, func(error) { completed <- "delete" })
	sut.Insert(ctx, UniqueFeed(), Timestamp(), func(error) { completed <- "insert" })

	var order []string
	for range 3 {
		select {
		case op := <-completed:
			order = append(order, op)
		case <-time.After(Timeout):
			t.Fatalf("timed out waiting for completions, got %v", order)
		}
	}

	assert.Equal(t, []string{"insert", "delete", "insert"}, order, "expected side effects to finish in submission order")
}

// Retrieve calls sut.Retrieve and waits for its completion.
func Retrieve(t *testing.T, sut essentialfeed.FeedStore) (*essentialfeed.CachedFeed, error) {
	t.Helper()

	type result struct {
		cache *essentialfeed.CachedFeed
		err   error
	}
	done := make(chan result, 1)
	sut.Retrieve(context.Background(), func(cache *essentialfeed.CachedFeed, err error) {
		done <- result{cache, err}
	})

	select {
	case r := <-done:
		return r.cache, r.err
	case <-time.After(Timeout):
		t.Fatal("timed out waiting for retrieval")
		return nil, nil
	}
}

// Insert calls sut.Insert and waits for its completion.
func Insert(t *testing.T, sut essentialfeed.FeedStore, feed []essentialfeed.LocalFeedImage, timestamp time.Time) error {
	t.Helper()

	done := make(chan error, 1)
	sut.Insert(context.Background(), feed, timestamp, func(err error) { done <- err })
	return wait(t, done, "insertion")
}

// Delete calls sut.DeleteCachedFeed and waits for its completion.
func Delete(t *testing.T, sut essentialfeed.FeedStore) error {
	t.Helper()

	done := make(chan error, 1)
	sut.DeleteCachedFeed(context.Background(), func(err error) { done <- err })
	return wait(t, done, "deletion")
}

func wait(t *testing.T, done <-chan error, op string) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(Timeout):
		t.Fatalf("timed out waiting for %s", op)
		return nil
	}
}

func expectEmpty(t *testing.T, sut essentialfeed.FeedStore) {
	t.Helper()

	cache, err := Retrieve(t, sut)
	require.NoError(t, err)
	assert.Nil(t, cache, "expected empty cache")
}

func expectFound(t *testing.T, sut essentialfeed.FeedStore, feed []essentialfeed.LocalFeedImage, timestamp time.Time) {
	t.Helper()

	cache, err := Retrieve(t, sut)
	require.NoError(t, err)
	require.NotNil(t, cache, "expected cached feed")
	assert.Equal(t, feed, cache.Feed)
	assert.True(t, timestamp.Equal(cache.Timestamp), "expected timestamp %v, got %v", timestamp, cache.Timestamp)
}

// UniqueFeed returns two images with fresh identifiers.
func UniqueFeed() []essentialfeed.LocalFeedImage {
	description := "a description"
	location := "a location"

	return []essentialfeed.LocalFeedImage{
		{ID: uuid.New(), URL: AnyURL()},
		{ID: uuid.New(), Description: &description, Location: &location, URL: AnyURL()},
	}
}

// AnyURL returns a URL that survives a round trip through its string form.
func AnyURL() url.URL {
	u, err := url.Parse(fmt.Sprintf("https://a-url.com/%s", uuid.NewString()))
	if err != nil {
		panic(err)
	}
	return *u
}

// Timestamp returns the current time at a precision every backend preserves.
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
