package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/expressions-service/internal/category"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
)

// Cache key patterns
const (
	CategoryKey     = "videos:category:%s" // videos:category:happy
	CategoryPattern = "videos:category:*"
)

// CategoryCacheDuration bounds how stale a category listing can be when an
// invalidation is lost.
const CategoryCacheDuration = 30 * time.Second

// VideoCache wraps a VideoStore with a Redis read-through cache for category
// listings. Every other call passes straight through.
type VideoCache struct {
	storage.VideoStore
	redis *redis.Client
}

func NewVideoCache(store storage.VideoStore, redisClient *redis.Client) *VideoCache {
	return &VideoCache{
		VideoStore: store,
		redis:      redisClient,
	}
}

// ListVideosByCategory returns cached records or fetches from the store
func (c *VideoCache) ListVideosByCategory(ctx context.Context, value string) ([]videos.VideoAsset, error) {
	key := fmt.Sprintf(CategoryKey, value)

	// Try cache first
	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var records []videos.VideoAsset
		if err := json.Unmarshal([]byte(cached), &records); err == nil {
			return records, nil
		}
	} else if err != redis.Nil {
		slog.Warn("Category cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	// Cache miss - fetch from the metadata store
	records, err := c.VideoStore.ListVideosByCategory(ctx, value)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(records)
	if err == nil {
		if err := c.redis.Set(ctx, key, data, CategoryCacheDuration).Err(); err != nil {
			slog.Warn("Category cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return records, nil
}

func (c *VideoCache) CreateVideo(ctx context.Context, video videos.VideoAsset) (videos.VideoAsset, error) {
	created, err := c.VideoStore.CreateVideo(ctx, video)
	if err != nil {
		return created, err
	}

	c.InvalidateCategories(ctx, created.Category)
	return created, nil
}

// DeleteVideo drops every category listing before and after the delete. The
// second pass clears a listing that a concurrent read cached from the
// pre-delete state.
func (c *VideoCache) DeleteVideo(ctx context.Context, id string) error {
	// the category is not known here
	all := category.All()
	names := make([]string, len(all))
	for i, cat := range all {
		names[i] = cat.String()
	}

	c.InvalidateCategories(ctx, names...)
	err := c.VideoStore.DeleteVideo(ctx, id)
	c.InvalidateCategories(ctx, names...)

	return err
}

// InvalidateCategories clears cached listings for the given categories
func (c *VideoCache) InvalidateCategories(ctx context.Context, categories ...string) {
	if len(categories) == 0 {
		return
	}

	keys := make([]string, len(categories))
	for i, value := range categories {
		keys[i] = fmt.Sprintf(CategoryKey, value)
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Category cache invalidation failed", slog.String("error", err.Error()))
	}
}
