package essentialfeed_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

type messageKind int

const (
	deleteCachedFeed messageKind = iota
	insert
	retrieve
)

type receivedMessage struct {
	kind      messageKind
	feed      []essentialfeed.LocalFeedImage
	timestamp time.Time
}

// feedStoreSpy records every command and holds its completion until the test fires it.
type feedStoreSpy struct {
	mu sync.Mutex

	deletionCompletions  []essentialfeed.DeletionCompletion
	insertionCompletions []essentialfeed.InsertionCompletion
	retrievalCompletions []essentialfeed.RetrievalCompletion

	messages []receivedMessage
}

var _ essentialfeed.FeedStore = (*feedStoreSpy)(nil)

func (s *feedStoreSpy) DeleteCachedFeed(_ context.Context, completion essentialfeed.DeletionCompletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletionCompletions = append(s.deletionCompletions, completion)
	s.messages = append(s.messages, receivedMessage{kind: deleteCachedFeed})
}

func (s *feedStoreSpy) Insert(
	_ context.Context,
	feed []essentialfeed.LocalFeedImage,
	timestamp time.Time,
	completion essentialfeed.InsertionCompletion,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertionCompletions = append(s.insertionCompletions, completion)
	s.messages = append(s.messages, receivedMessage{kind: insert, feed: feed, timestamp: timestamp})
}

func (s *feedStoreSpy) Retrieve(_ context.Context, completion essentialfeed.RetrievalCompletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retrievalCompletions = append(s.retrievalCompletions, completion)
	s.messages = append(s.messages, receivedMessage{kind: retrieve})
}

func (s *feedStoreSpy) receivedMessages() []receivedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]receivedMessage(nil), s.messages...)
}

func (s *feedStoreSpy) completeDeletion(err error) {
	s.mu.Lock()
	c := s.deletionCompletions[0]
	s.mu.Unlock()
	c(err)
}

func (s *feedStoreSpy) completeDeletionAt(index int, err error) {
	s.mu.Lock()
	c := s.deletionCompletions[index]
	s.mu.Unlock()
	c(err)
}

func (s *feedStoreSpy) completeInsertion(err error) {
	s.mu.Lock()
	c := s.insertionCompletions[0]
	s.mu.Unlock()
	c(err)
}

func (s *feedStoreSpy) completeRetrieval(err error) {
	s.mu.Lock()
	c := s.retrievalCompletions[0]
	s.mu.Unlock()
	c(nil, err)
}

func (s *feedStoreSpy) completeRetrievalWithEmptyCache() {
	s.completeRetrieval(nil)
}

func (s *feedStoreSpy) completeRetrievalWith(feed []essentialfeed.LocalFeedImage, timestamp time.Time) {
	s.mu.Lock()
	c := s.retrievalCompletions[0]
	s.mu.Unlock()
	c(&essentialfeed.CachedFeed{Feed: feed, Timestamp: timestamp}, nil)
}

func anyError() error {
	return errors.New("any error")
}

func anyURL() url.URL {
	u, err := url.Parse(fmt.Sprintf("https://a-url.com/%s", uuid.NewString()))
	if err != nil {
		panic(err)
	}
	return *u
}

func uniqueImage() essentialfeed.FeedImage {
	return essentialfeed.FeedImage{ID: uuid.New(), URL: anyURL()}
}

func uniqueImageFeed() (models []essentialfeed.FeedImage, local []essentialfeed.LocalFeedImage) {
	models = []essentialfeed.FeedImage{uniqueImage(), uniqueImage()}
	for _, m := range models {
		local = append(local, essentialfeed.LocalFeedImage{
			ID:          m.ID,
			Description: m.Description,
			Location:    m.Location,
			URL:         m.URL,
		})
	}
	return models, local
}

func fixedTime() time.Time {
	return time.Date(2023, 10, 18, 12, 0, 0, 0, time.UTC)
}

func minusFeedCacheMaxAge(t time.Time) time.Time {
	return t.Add(-essentialfeed.DefaultMaxCacheAge)
}
