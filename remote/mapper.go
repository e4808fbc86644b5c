package remote

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Item is one entry of the remote feed payload.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Image       string    `json:"image"`
}

type root struct {
	Items []Item `json:"items"`
}

// MapItems decodes a feed payload. Anything but a 200 response carrying a valid
// {"items": [...]} document is ErrInvalidData.
func MapItems(data []byte, statusCode int) ([]Item, error) {
	if statusCode != http.StatusOK {
		return nil, ErrInvalidData
	}

	var r root
	if err := json.Unmarshal(data, &r); err != nil || r.Items == nil {
		return nil, ErrInvalidData
	}

	return r.Items, nil
}

func toModels(items []Item) ([]essentialfeed.FeedImage, error) {
	feed := make([]essentialfeed.FeedImage, 0, len(items))
	for _, item := range items {
		u, err := url.Parse(item.Image)
		if err != nil || item.Image == "" {
			return nil, ErrInvalidData
		}
		feed = append(feed, essentialfeed.FeedImage{
			ID:          item.ID,
			Description: item.Description,
			Location:    item.Location,
			URL:         *u,
		})
	}
	return feed, nil
}
