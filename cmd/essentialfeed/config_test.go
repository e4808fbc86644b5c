package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		env         map[string]string
		expected    func(c *config)
		expectedErr bool
	}{
		{
			name: "defaults with feed url from env",
			env:  map[string]string{"FEED_URL": "https://a-url.com/feed"},
			expected: func(c *config) {
				c.FeedURL = "https://a-url.com/feed"
			},
		},
		{
			name: "yaml file",
			yaml: "feed_url: https://yaml.com\nstore: sqlite\nstore_path: /tmp/feed.sqlite\nmax_cache_age: 24h\nlog_level: debug\n",
			expected: func(c *config) {
				c.FeedURL = "https://yaml.com"
				c.Store = storeSQLite
				c.StorePath = "/tmp/feed.sqlite"
				c.MaxCacheAge = 24 * time.Hour
				c.LogLevel = slog.LevelDebug
			},
		},
		{
			name: "env overrides yaml",
			yaml: "feed_url: https://yaml.com\nstore: memory\n",
			env: map[string]string{
				"FEED_STORE":             "dynamodb",
				"FEED_DYNAMODB_TABLE":    "feed",
				"FEED_REFRESH_INTERVAL":  "1m",
				"FEED_DYNAMODB_TTL":      "true",
				"FEED_DYNAMODB_ENDPOINT": "http://localhost:8000",
			},
			expected: func(c *config) {
				c.FeedURL = "https://yaml.com"
				c.Store = storeDynamoDB
				c.DynamoDBTable = "feed"
				c.DynamoDBTTL = true
				c.DynamoDBEndpoint = "http://localhost:8000"
				c.RefreshInterval = time.Minute
			},
		},
		{
			name:        "missing feed url",
			expectedErr: true,
		},
		{
			name:        "unknown store",
			env:         map[string]string{"FEED_URL": "https://a-url.com", "FEED_STORE": "s3"},
			expectedErr: true,
		},
		{
			name:        "postgres without dsn",
			env:         map[string]string{"FEED_URL": "https://a-url.com", "FEED_STORE": "postgres"},
			expectedErr: true,
		},
		{
			name:        "invalid yaml",
			yaml:        "feed_url: [",
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FEED_CONFIG_FILE", "")
			if tt.yaml != "" {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
				t.Setenv("FEED_CONFIG_FILE", path)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			c, err := loadConfig()
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			want := defaultConfig()
			tt.expected(&want)
			assert.Equal(t, want, c)
		})
	}
}
