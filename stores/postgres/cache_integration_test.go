//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/stores/storetest"
)

// setup connects to the database named by POSTGRES_DSN and empties the cache table.
func setup(t *testing.T) *sql.DB {
	t.Log("setup called")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		dsn = "postgresql://localhost:5455/postgresDB?user=postgresUser&password=postgresPW&sslmode=disable"
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestStoreIntegration(t *testing.T) {
	db := setup(t)

	storetest.TestFeedStore(t, func(t *testing.T) essentialfeed.FeedStore {
		s, err := New(context.Background(), db)
		require.NoError(t, err)
		require.NoError(t, storetest.Delete(t, s))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestNewFailsOnUnreachableDatabase(t *testing.T) {
	db, err := sql.Open("postgres", "postgresql://localhost:1/none?sslmode=disable&connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(context.Background(), db)
	assert.ErrorIs(t, err, ErrPingFailed)
	assert.Nil(t, s)
}

func TestRetrieveTruncatesTimestampsToMicroseconds(t *testing.T) {
	db := setup(t)
	s, err := New(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	timestamp := time.Date(2023, 10, 18, 12, 0, 0, 123456789, time.UTC)
	require.NoError(t, storetest.Insert(t, s, storetest.UniqueFeed(), timestamp))

	cache, err := storetest.Retrieve(t, s)
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.True(t, timestamp.Truncate(time.Microsecond).Equal(cache.Timestamp))
}
