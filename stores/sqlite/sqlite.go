// Package sqlite provides a SQLite-backed FeedStore.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/stores"
)

const (
	queryCreateTable = `CREATE TABLE IF NOT EXISTS feed_cache (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		feed BLOB NOT NULL,
		timestamp INTEGER NOT NULL
	)`
	queryRetrieve = `SELECT feed, timestamp FROM feed_cache WHERE slot = 1`
	queryInsert   = `INSERT INTO feed_cache (slot, feed, timestamp) VALUES (1, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET feed = excluded.feed, timestamp = excluded.timestamp`
	queryDelete = `DELETE FROM feed_cache`
)

// Store persists the cached feed in a single-row SQLite table.
//
// Timestamps are stored as Unix nanoseconds and keep full precision, but only
// instants between the years 1678 and 2262 can be represented.
type Store struct {
	db *sql.DB

	queue *stores.SerialQueue
}

var _ essentialfeed.FeedStore = (*Store)(nil)

func (s *Store) Retrieve(ctx context.Context, completion essentialfeed.RetrievalCompletion) {
	if !s.queue.Dispatch(func() { completion(s.retrieve(ctx)) }) {
		completion(nil, stores.ErrStoreClosed)
	}
}

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

func (s *Store) DeleteCachedFeed(ctx context.Context, completion essentialfeed.DeletionCompletion) {
	if !s.queue.Dispatch(func() { completion(s.delete(ctx)) }) {
		completion(stores.ErrStoreClosed)
	}
}

// Close waits for pending operations and closes the SQLite handle.
func (s *Store) Close() error {
	s.queue.Close()
	return s.db.Close()
}

func (s *Store) retrieve(ctx context.Context) (*essentialfeed.CachedFeed, error) {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	var data []byte
	var nanos int64
	err := s.db.QueryRowContext(ctx, queryRetrieve).Scan(&data, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cache: %w", err)
	}

	feed, err := stores.DecodeFeed(data)
	if err != nil {
		return nil, err
	}

	return &essentialfeed.CachedFeed{
		Feed:      feed,
		Timestamp: time.Unix(0, nanos).UTC(),
	}, nil
}

func (s *Store) insert(ctx context.Context, feed []essentialfeed.LocalFeedImage, timestamp time.Time) error {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	data, err := stores.EncodeFeed(feed)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, queryInsert, data, timestamp.UnixNano()); err != nil {
		return fmt.Errorf("insert cache: %w", err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context) error {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, queryDelete); err != nil {
		return fmt.Errorf("delete cache: %w", err)
	}
	return nil
}

// Open opens the SQLite database at path and creates the cache table if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, stores.ValidationError{Reason: "empty path"}
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// the serial queue is the only writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, queryCreateTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{
		db:    db,
		queue: stores.NewSerialQueue(),
	}, nil
}
