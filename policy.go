package essentialfeed

import "time"

// DefaultMaxCacheAge is how long a cached feed stays valid unless configured otherwise.
const DefaultMaxCacheAge = 7 * 24 * time.Hour

// CachePolicy decides whether a cache generation may still be served.
type CachePolicy struct {
	MaxAge time.Duration
}

// Validate reports whether a cache written at timestamp is still valid at the instant against.
// A cache is valid only while against is strictly before timestamp+MaxAge. If the
// expiry cannot be represented the cache is treated as invalid.
func (p CachePolicy) Validate(timestamp, against time.Time) bool {
	if p.MaxAge <= 0 {
		return false
	}

	expiry := timestamp.Add(p.MaxAge)
	if expiry.Sub(timestamp) != p.MaxAge { // saturated
		return false
	}

	return against.Before(expiry)
}
