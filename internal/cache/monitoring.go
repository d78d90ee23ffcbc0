package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/expressions-service/internal/utils/response"
)

// CacheStats represents cache performance statistics
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CacheKeys      []string `json:"cache_keys_sample"`
	KeyCount       int      `json:"total_keys"`
}

// GetCacheStats returns cache statistics
// @Summary Category cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/cache [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{
			RedisConnected: true,
		}

		// Test Redis connection
		_, err := redisClient.Ping(ctx).Result()
		if err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys, err := scanKeys(r, redisClient)
		if err == nil {
			stats.KeyCount = len(keys)
			if len(keys) > 10 {
				keys = keys[:10] // Show only first 10
			}
			stats.CacheKeys = keys
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache drops every cached category listing
// @Summary Clear category cache
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /admin/cache [delete]
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := scanKeys(r, redisClient)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		if len(keys) == 0 {
			response.WriteJSON(w, http.StatusOK, response.RequestOK("No cache keys to clear", map[string]interface{}{
				"pattern":      CategoryPattern,
				"deleted_keys": 0,
			}))
			return
		}

		deleted, err := redisClient.Del(r.Context(), keys...).Result()
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared successfully", map[string]interface{}{
			"pattern":      CategoryPattern,
			"deleted_keys": deleted,
		}))
	}
}

func scanKeys(r *http.Request, redisClient *redis.Client) ([]string, error) {
	var keys []string
	iter := redisClient.Scan(r.Context(), 0, CategoryPattern, 100).Iterator()
	for iter.Next(r.Context()) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}
