package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/remote"
	"github.com/nikitkabu/EssentialFeed/stores/dynamodb"
	"github.com/nikitkabu/EssentialFeed/stores/file"
	"github.com/nikitkabu/EssentialFeed/stores/inmemory"
	"github.com/nikitkabu/EssentialFeed/stores/postgres"
	"github.com/nikitkabu/EssentialFeed/stores/sqlite"
)

type closableStore interface {
	essentialfeed.FeedStore
	Close() error
}

func main() {
	ctx := context.Background()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))

	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		return fmt.Errorf("open %s store: %w", c.Store, err)
	}
	defer closeStore()

	local, err := essentialfeed.NewLocalFeedLoader(store, &essentialfeed.Config{
		MaxCacheAge: c.MaxCacheAge,
	}, time.Now, logger)
	if err != nil {
		return err
	}
	defer local.Close()

	client := remote.NewNetHTTPClient(&http.Client{Timeout: c.RequestTimeout})
	r := remote.NewRemoteFeedLoader(client, c.FeedURL)
	defer r.Close()

	local.ValidateCache(ctx)
	refresh(ctx, r, local, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return every(ctx, c.RefreshInterval, func() { refresh(ctx, r, local, logger) })
	})
	g.Go(func() error {
		return every(ctx, c.ValidateInterval, func() { local.ValidateCache(ctx) })
	})

	return g.Wait()
}

// refresh replaces the cache with the remote feed, falling back to the cached feed
// when the remote one cannot be loaded.
func refresh(ctx context.Context, r essentialfeed.FeedLoader, local *essentialfeed.LocalFeedLoader, logger *slog.Logger) {
	feed, err := loadFeed(ctx, r)
	if err != nil {
		logger.WarnContext(ctx, "remote feed unavailable, using cache", "error", err)

		cached, err := loadFeed(ctx, local)
		if err != nil {
			logger.ErrorContext(ctx, "error loading cached feed", "error", err)
			return
		}
		logger.InfoContext(ctx, "cached feed loaded", "items", len(cached))
		return
	}

	done := make(chan error, 1)
	local.Save(ctx, feed, func(err error) { done <- err })

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorContext(ctx, "error caching feed", "error", err)
			return
		}
		logger.InfoContext(ctx, "feed refreshed", "items", len(feed))
	case <-ctx.Done():
	}
}

func loadFeed(ctx context.Context, loader essentialfeed.FeedLoader) ([]essentialfeed.FeedImage, error) {
	type result struct {
		feed []essentialfeed.FeedImage
		err  error
	}

	done := make(chan result, 1)
	loader.Load(ctx, func(feed []essentialfeed.FeedImage, err error) {
		done <- result{feed, err}
	})

	select {
	case r := <-done:
		return r.feed, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func every(ctx context.Context, interval time.Duration, fn func()) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			fn()
		}
	}
}

func openStore(ctx context.Context, c config) (essentialfeed.FeedStore, func(), error) {
	var (
		store closableStore
		extra func()
		err   error
	)

	switch c.Store {
	case storeMemory:
		store = inmemory.New()
	case storeFile:
		store, err = file.New(&file.Config{Path: c.StorePath})
	case storeSQLite:
		store, err = sqlite.Open(ctx, c.StorePath)
	case storePostgres:
		var db *sql.DB
		db, err = sql.Open("postgres", c.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		extra = func() { _ = db.Close() }
		store, err = postgres.New(ctx, db)
		if err != nil {
			extra()
		}
	case storeDynamoDB:
		store, err = openDynamoDB(ctx, c)
	default:
		err = fmt.Errorf("unknown store %q", c.Store)
	}
	if err != nil {
		return nil, nil, err
	}

	return store, func() {
		_ = store.Close()
		if extra != nil {
			extra()
		}
	}, nil
}

func openDynamoDB(ctx context.Context, c config) (*dynamodb.Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	client := awsdynamodb.NewFromConfig(cfg, func(o *awsdynamodb.Options) {
		if c.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(c.DynamoDBEndpoint)
		}
	})

	return dynamodb.New(ctx, client, &dynamodb.Config{
		Table:              c.DynamoDBTable,
		DeleteExpiredItems: c.DynamoDBTTL,
	})
}
