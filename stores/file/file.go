// Package file provides a FeedStore persisting the cache as a JSON document on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/stores"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config defines the configuration options for the file store.
type Config struct {
	// Path is the location of the cache document. Its directory must exist.
	Path string

	// Perm is the mode the document is created with. Defaults to 0o600.
	Perm fs.FileMode
}

// Store implements essentialfeed.FeedStore on a single JSON file. A missing file is an
// empty cache; a file that cannot be decoded is a retrieval error.
type Store struct {
	path string
	perm fs.FileMode

	queue *stores.SerialQueue
}

var _ essentialfeed.FeedStore = (*Store)(nil)

type cache struct {
	Feed      []stores.FeedRecord `json:"feed"`
	Timestamp time.Time           `json:"timestamp"`
}

func (s *Store) Retrieve(_ context.Context, completion essentialfeed.RetrievalCompletion) {
	if !s.queue.Dispatch(func() { completion(s.retrieve()) }) {
		completion(nil, stores.ErrStoreClosed)
	}
}

func (s *Store) Insert(
	_ context.Context,
	feed []essentialfeed.LocalFeedImage,
	timestamp time.Time,
	completion essentialfeed.InsertionCompletion,
) {
	if !s.queue.Dispatch(func() { completion(s.insert(feed, timestamp)) }) {
		completion(stores.ErrStoreClosed)
	}
}

func (s *Store) DeleteCachedFeed(_ context.Context, completion essentialfeed.DeletionCompletion) {
	if !s.queue.Dispatch(func() { completion(s.delete()) }) {
		completion(stores.ErrStoreClosed)
	}
}

// Close waits for pending operations and stops the store's worker.
func (s *Store) Close() error {
	s.queue.Close()
	return nil
}

func (s *Store) retrieve() (*essentialfeed.CachedFeed, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Join(stores.ErrCorruptCache, err)
	}

	feed, err := stores.FromRecords(c.Feed)
	if err != nil {
		return nil, err
	}

	return &essentialfeed.CachedFeed{Feed: feed, Timestamp: c.Timestamp}, nil
}

func (s *Store) insert(feed []essentialfeed.LocalFeedImage, timestamp time.Time) error {
	data, err := json.Marshal(cache{
		Feed:      stores.ToRecords(feed),
		Timestamp: timestamp,
	})
	if err != nil {
		return err
	}

	// temp file + rename keeps the swap atomic
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Chmod(s.perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// New creates a file store. Returns a stores.ValidationError if no path is configured.
func New(config *Config) (*Store, error) {
	if config == nil || config.Path == "" {
		return nil, stores.ValidationError{
			Reason: "empty path",
		}
	}

	perm := config.Perm
	if perm == 0 {
		perm = 0o600
	}

	return &Store{
		path:  filepath.Clean(config.Path),
		perm:  perm,
		queue: stores.NewSerialQueue(),
	}, nil
}
