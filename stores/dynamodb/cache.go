package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
	"github.com/nikitkabu/EssentialFeed/stores"
)

// DefaultKey is the partition key value the cache item is stored under.
const DefaultKey = "feed"

// API is the subset of *dynamodb.Client the store uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Config defines the configuration options for the DynamoDB store.
type Config struct {
	DeleteExpiredItems bool // Controls if the expired_at TTL property is written so DynamoDB can drop abandoned caches

	ItemExpiration time.Duration // How long an item stays in the table when DeleteExpiredItems is set. Independent of the loader's max cache age.
	Table          string
	Key            string // Partition key value of the cache item, defaults to DefaultKey
}

// Store implements essentialfeed.FeedStore using Amazon DynamoDB. The cache is a single
// item addressed by a fixed partition key.
type Store struct {
	client API

	table         string
	key           string
	expiration    time.Duration
	deleteExpired bool

	queue *stores.SerialQueue
}

var _ essentialfeed.FeedStore = (*Store)(nil)

type cacheItem struct {
	Key       string              `dynamodbav:"key"`
	Feed      []stores.FeedRecord `dynamodbav:"feed"`
	Timestamp int64               `dynamodbav:"timestamp"`
	ExpiredAt int64               `dynamodbav:"expired_at,omitempty"`
}

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

// Close waits for pending operations and stops the store's worker.
func (s *Store) Close() error {
	s.queue.Close()
	return nil
}

func (s *Store) primaryKey() (map[string]types.AttributeValue, error) {
	key, err := attributevalue.Marshal(s.key)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{"key": key}, nil
}

func (s *Store) retrieve(ctx context.Context) (*essentialfeed.CachedFeed, error) {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	key, err := s.primaryKey()
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		Key:            key,
		ConsistentRead: aws.Bool(true),
		TableName:      aws.String(s.table),
	})
	if err != nil {
		return nil, err
	}

	if output.Item == nil {
		return nil, nil
	}

	var item cacheItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, fmt.Errorf("%w: %w", stores.ErrCorruptCache, err)
	}

	feed, err := stores.FromRecords(item.Feed)
	if err != nil {
		return nil, err
	}

	return &essentialfeed.CachedFeed{
		Feed:      feed,
		Timestamp: time.Unix(0, item.Timestamp).UTC(),
	}, nil
}

func (s *Store) insert(ctx context.Context, feed []essentialfeed.LocalFeedImage, timestamp time.Time) error {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	i := cacheItem{
		Key:       s.key,
		Feed:      stores.ToRecords(feed),
		Timestamp: timestamp.UnixNano(),
	}
	if s.deleteExpired {
		i.ExpiredAt = timestamp.Add(s.expiration).Unix()
	}

	av, err := attributevalue.MarshalMap(i)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	return err
}

func (s *Store) delete(ctx context.Context) error {
	ctx, cancel := stores.OperationContext(ctx)
	defer cancel()

	key, err := s.primaryKey()
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		Key:       key,
		TableName: aws.String(s.table),
	})
	return err
}

// New creates a new DynamoDB store with the provided configuration.
// It validates the configuration and sets default values where appropriate.
// Returns an error if the client is nil or if the configuration is invalid.
func New(_ context.Context, client API, config *Config) (*Store, error) {
	if client == nil {
		return nil, stores.ValidationError{
			Reason: "nil client",
		}
	}

	if config == nil || config.Table == "" {
		return nil, stores.ValidationError{
			Reason: "empty table",
		}
	}

	itemExpiration := config.ItemExpiration
	if itemExpiration == 0 {
		itemExpiration = stores.DefaultItemExpiration
	}

	key := config.Key
	if key == "" {
		key = DefaultKey
	}

	return &Store{
		client: client,

		table:         config.Table,
		key:           key,
		expiration:    itemExpiration,
		deleteExpired: config.DeleteExpiredItems,

		queue: stores.NewSerialQueue(),
	}, nil
}
