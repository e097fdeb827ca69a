package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopRadar/domain"

	"github.com/redis/go-redis/v9"
)

// SiteCacheRepository caches API-key lookups so the tracker hot path does
// not hit postgres on every event.
type SiteCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSiteCacheRepository(client *redis.Client, ttl time.Duration) *SiteCacheRepository {
	return &SiteCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func siteKey(apiKey string) string {
	return fmt.Sprintf("site:apikey:%s", apiKey)
}

func (r *SiteCacheRepository) GetSite(ctx context.Context, apiKey string) (*domain.Site, error) {
	val, err := r.client.Get(ctx, siteKey(apiKey)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("site not cached")
		}
		return nil, fmt.Errorf("failed to get site from Redis: %w", err)
	}

	var site domain.Site
	if err := json.Unmarshal([]byte(val), &site); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached site: %w", err)
	}

	return &site, nil
}

func (r *SiteCacheRepository) StoreSite(ctx context.Context, site domain.Site) error {
	jsonData, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("failed to marshal site: %w", err)
	}

	err = r.client.Set(ctx, siteKey(site.APIKey), jsonData, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store site in Redis: %w", err)
	}

	return nil
}

// InvalidateSite drops the cached entry, used when a key is revoked so the
// revocation takes effect before the TTL runs out.
func (r *SiteCacheRepository) InvalidateSite(ctx context.Context, apiKey string) error {
	err := r.client.Del(ctx, siteKey(apiKey)).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate cached site: %w", err)
	}

	return nil
}
