package essentialfeed

import "time"

type Config struct {
	// MaxCacheAge is how long a saved feed is served by Load before it is considered
	// expired. Expired caches are removed by ValidateCache.
	MaxCacheAge time.Duration
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxCacheAge: DefaultMaxCacheAge,
	}
}
