package stores

import (
	"errors"
	"net/url"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FeedRecord is the serialized form of an essentialfeed.LocalFeedImage shared by the backends.
type FeedRecord struct {
	ID          string  `json:"id" dynamodbav:"id"`
	Description *string `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Location    *string `json:"location,omitempty" dynamodbav:"location,omitempty"`
	URL         string  `json:"url" dynamodbav:"url"`
}

func ToRecords(feed []essentialfeed.LocalFeedImage) []FeedRecord {
	records := make([]FeedRecord, 0, len(feed))
	for _, img := range feed {
		records = append(records, FeedRecord{
			ID:          img.ID.String(),
			Description: img.Description,
			Location:    img.Location,
			URL:         img.URL.String(),
		})
	}
	return records
}

// FromRecords reverses ToRecords. A record that cannot be parsed yields ErrCorruptCache.
func FromRecords(records []FeedRecord) ([]essentialfeed.LocalFeedImage, error) {
	feed := make([]essentialfeed.LocalFeedImage, 0, len(records))
	for _, r := range records {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, errors.Join(ErrCorruptCache, err)
		}
		u, err := url.Parse(r.URL)
		if err != nil {
			return nil, errors.Join(ErrCorruptCache, err)
		}
		feed = append(feed, essentialfeed.LocalFeedImage{
			ID:          id,
			Description: r.Description,
			Location:    r.Location,
			URL:         *u,
		})
	}
	return feed, nil
}

// EncodeFeed serializes feed to JSON.
func EncodeFeed(feed []essentialfeed.LocalFeedImage) ([]byte, error) {
	return json.Marshal(ToRecords(feed))
}

// DecodeFeed parses data written by EncodeFeed.
func DecodeFeed(data []byte) ([]essentialfeed.LocalFeedImage, error) {
	var records []FeedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Join(ErrCorruptCache, err)
	}
	return FromRecords(records)
}
