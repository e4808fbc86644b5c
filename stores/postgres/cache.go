// Package postgres provides a PostgreSQL-backed FeedStore.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/stores"
)

var (
	// ErrPingFailed is returned if the initial ping to the database returns an error
	ErrPingFailed = errors.New("ping returned error")
)

var (
	//go:embed create_table.sql
	queryCreateTable string
	//go:embed fetch_cache.sql
	queryFetchCache string
	//go:embed insert_cache.sql
	queryInsertCache string
	//go:embed delete_cache.sql
	queryDeleteCache string
)

// Store implements essentialfeed.FeedStore using PostgreSQL as the storage backend.
// The cache lives in a single-row table; Insert upserts that row and DeleteCachedFeed
// empties the table.
//
// TIMESTAMPTZ keeps microseconds, so timestamps are truncated to the microsecond on
// insert and a cache can be reported expired up to 999ns early.
type Store struct {
	db *sql.DB

	queue *stores.SerialQueue
}

var _ essentialfeed.FeedStore = (*Store)(nil)

// Retrieve fetches the cached feed. An empty table is reported as (nil, nil).
func (s *Store) Retrieve(ctx context.Context, completion essentialfeed.RetrievalCompletion) {
	if !s.queue.Dispatch(func() { completion(s.retrieve(ctx)) }) {
		completion(nil, stores.ErrStoreClosed)
	}
}

// Insert replaces the cached feed with feed, stamped with timestamp.
func (s *Store) Insert(
	ctx context.Context,
	feed []essentialfeed.LocalFeedImage,
	timestamp time.Time,
	completion essentialfeed.InsertionCompletion,
) {
	if !s.queue.Dispatch(func() { completion(s.insert(ctx, feed, timestamp)) }) {
		completion(stores.ErrStoreClosed)
	}
}

// DeleteCachedFeed removes the cached feed, if any.
func (s *Store) DeleteCachedFeed(ctx context.Context, completion essentialfeed.DeletionCompletion) {
	if !s.queue.Dispatch(func() { completion(s.delete(ctx)) }) {
		completion(stores.ErrStoreClosed)
	}
}

// Close waits for pending operations. The *sql.DB is owned by the caller and stays open.
func (s *Store) Close() error {
	s.queue.Close()
	return nil
}

func (s *Store) retrieve(ctx context.Context) (*essentialfeed.CachedFeed, error) {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	stmt, err := s.db.PrepareContext(ctx, queryFetchCache)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var data []byte
	var cachedAt time.Time
	if err := stmt.QueryRowContext(ctx).Scan(&data, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	feed, err := stores.DecodeFeed(data)
	if err != nil {
		return nil, err
	}

	return &essentialfeed.CachedFeed{
		Feed:      feed,
		Timestamp: cachedAt.UTC(),
	}, nil
}

func (s *Store) insert(ctx context.Context, feed []essentialfeed.LocalFeedImage, timestamp time.Time) error {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	stmt, err := s.db.PrepareContext(ctx, queryInsertCache)
	if err != nil {
		return err
	}
	defer stmt.Close()

	data, err := stores.EncodeFeed(feed)
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx, data, timestamp.UTC().Truncate(time.Microsecond))
	return err
}

func (s *Store) delete(ctx context.Context) error {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	stmt, err := s.db.PrepareContext(ctx, queryDeleteCache)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx)
	return err
}

func createTable(ctx context.Context, db *sql.DB) error {
	stmt, err := db.PrepareContext(ctx, queryCreateTable)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx)
	return err
}

// New creates a new PostgreSQL store. It verifies the database connection and
// creates the cache table if it does not exist yet.
//
// Returns an error if:
// - db is nil
// - The database connection test fails
// - Table creation fails
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, stores.ValidationError{
			Reason: "nil db",
		}
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(ErrPingFailed, err)
	}

	if err := createTable(ctx, db); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{
		db:    db,
		queue: stores.NewSerialQueue(),
	}, nil
}
