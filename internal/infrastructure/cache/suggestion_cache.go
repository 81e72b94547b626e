package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/optica-api/internal/domain/record"
)

const suggestionKeyPrefix = "suggestions:"

// SuggestionCache keeps recent search results for a short time. A nil
// client turns every call into a miss.
type SuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSuggestionCache creates a suggestion cache
func NewSuggestionCache(client *redis.Client, ttl time.Duration) *SuggestionCache {
	return &SuggestionCache{client: client, ttl: ttl}
}

// Key builds the cache key of one query
func (c *SuggestionCache) Key(field, query string) string {
	return fmt.Sprintf("%s%s:%s", suggestionKeyPrefix, field, strings.ToLower(strings.TrimSpace(query)))
}

// Get returns cached suggestions for key
func (c *SuggestionCache) Get(ctx context.Context, key string) ([]record.Suggestion, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var suggestions []record.Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}

// Set caches suggestions under key
func (c *SuggestionCache) Set(ctx context.Context, key string, suggestions []record.Suggestion) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// Invalidate drops every cached search. Called after a save.
func (c *SuggestionCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	keys, err := c.client.Keys(ctx, suggestionKeyPrefix+"*").Result()
	if err == nil && len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}
