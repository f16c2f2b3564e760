package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewhub/internal/httpapi/models"
)

const titleTTL = 10 * time.Minute

// TitleCache keeps title detail reads off the database. A nil *TitleCache is
// a no-op so the API runs fine without Redis.
type TitleCache struct {
	client *redis.Client
}

func NewTitleCache(redisURL string) (*TitleCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &TitleCache{client: client}, nil
}

func (c *TitleCache) key(titleID int64) string {
	return fmt.Sprintf("title:%d", titleID)
}

// Get returns the cached title, or nil on a miss.
func (c *TitleCache) Get(ctx context.Context, titleID int64) (*models.Title, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, c.key(titleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var title models.Title
	if err := json.Unmarshal(data, &title); err != nil {
		return nil, err
	}
	return &title, nil
}

func (c *TitleCache) Set(ctx context.Context, title *models.Title) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(title)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(title.ID), data, titleTTL).Err()
}

// Invalidate drops the cached entry after a rating or catalog change.
func (c *TitleCache) Invalidate(ctx context.Context, titleID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(titleID)).Err()
}

func (c *TitleCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
