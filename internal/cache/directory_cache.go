// Package cache keeps short-lived JSON copies of per-experience directory
// listings in Redis. A miss or a Redis outage degrades to a database read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"directory-service/internal/models"

	"github.com/redis/go-redis/v9"
)

const listingTTL = 30 * time.Second

type DirectoryCache struct {
	client *redis.Client
}

func NewDirectoryCache(client *redis.Client) *DirectoryCache {
	return &DirectoryCache{client: client}
}

func listingKey(experienceID string) string {
	return fmt.Sprintf("directory:listing:%s", experienceID)
}

func (c *DirectoryCache) GetListing(ctx context.Context, experienceID string) ([]*models.Profile, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, listingKey(experienceID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: listing read failed for %s: %v", experienceID, err)
		}
		return nil, false
	}

	var profiles []*models.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		log.Printf("cache: discarding undecodable listing for %s: %v", experienceID, err)
		return nil, false
	}

	return profiles, true
}

func (c *DirectoryCache) SetListing(ctx context.Context, experienceID string, profiles []*models.Profile) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(profiles)
	if err != nil {
		log.Printf("cache: could not encode listing for %s: %v", experienceID, err)
		return
	}

	if err := c.client.Set(ctx, listingKey(experienceID), data, listingTTL).Err(); err != nil {
		log.Printf("cache: listing write failed for %s: %v", experienceID, err)
	}
}

// Invalidate drops the cached listing after any profile write in the
// experience.
func (c *DirectoryCache) Invalidate(ctx context.Context, experienceID string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, listingKey(experienceID)).Err(); err != nil {
		log.Printf("cache: listing invalidate failed for %s: %v", experienceID, err)
	}
}
