package essentialfeed_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	essentialfeed "github.com/nikitkabu/EssentialFeed"
)

func TestCachePolicyValidate(t *testing.T) {
	now := fixedTime()
	maxTime := time.Unix(math.MaxInt64-62135596800, 999999999)

	tests := []struct {
		name      string
		maxAge    time.Duration
		timestamp time.Time
		against   time.Time
		want      bool
	}{
		{name: "fresh cache", maxAge: essentialfeed.DefaultMaxCacheAge, timestamp: now, against: now, want: true},
		{name: "one second before expiry", maxAge: essentialfeed.DefaultMaxCacheAge, timestamp: minusFeedCacheMaxAge(now).Add(time.Second), against: now, want: true},
		{name: "exactly at expiry", maxAge: essentialfeed.DefaultMaxCacheAge, timestamp: minusFeedCacheMaxAge(now), against: now, want: false},
		{name: "past expiry", maxAge: essentialfeed.DefaultMaxCacheAge, timestamp: minusFeedCacheMaxAge(now).Add(-time.Second), against: now, want: false},
		{name: "timestamp in the future", maxAge: essentialfeed.DefaultMaxCacheAge, timestamp: now.Add(time.Hour), against: now, want: true},
		{name: "custom max age", maxAge: time.Minute, timestamp: now.Add(-time.Minute), against: now, want: false},
		{name: "zero max age", maxAge: 0, timestamp: now, against: now, want: false},
		{name: "negative max age", maxAge: -time.Hour, timestamp: now, against: now.Add(-2 * time.Hour), want: false},
		{name: "expiry overflows", maxAge: essentialfeed.DefaultMaxCacheAge, timestamp: maxTime, against: maxTime.Add(-time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := essentialfeed.CachePolicy{MaxAge: tt.maxAge}
			assert.Equal(t, tt.want, p.Validate(tt.timestamp, tt.against))
		})
	}
}
