package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache timeouts per data class. The cache is never authoritative, entries
// only save recomputation.
const (
	TimeoutDonationDetail    = 15 * time.Minute
	TimeoutNotificationCount = time.Minute
	TimeoutAnalytics         = 2 * time.Hour
)

type (
	CacheManager interface {
		GetNotificationCount(ctx context.Context, userID string) (int64, bool)
		SetNotificationCount(ctx context.Context, userID string, count int64)
		InvalidateNotificationCount(ctx context.Context, userID string)

		GetJSON(ctx context.Context, key string, dest any) bool
		SetJSON(ctx context.Context, key string, value any, ttl time.Duration)
		Invalidate(ctx context.Context, keys ...string)
	}

	cacheManager struct {
		rdb *redis.Client
	}
)

func NewCacheManager(rdb *redis.Client) CacheManager {
	return &cacheManager{rdb: rdb}
}

// MakeKey builds readable namespaced keys: foodloop:<part>:<part>...
func MakeKey(parts ...string) string {
	return "foodloop:" + strings.Join(parts, ":")
}

func DonationKey(donationID string) string {
	return MakeKey("donation", donationID)
}

func AnalyticsKey(parts ...string) string {
	return MakeKey(append([]string{"analytics"}, parts...)...)
}

func notificationCountKey(userID string) string {
	return MakeKey("user", userID, "notification_count")
}

func (c *cacheManager) GetNotificationCount(ctx context.Context, userID string) (int64, bool) {
	val, err := c.rdb.Get(ctx, notificationCountKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *cacheManager) SetNotificationCount(ctx context.Context, userID string, count int64) {
	c.rdb.Set(ctx, notificationCountKey(userID), fmt.Sprintf("%d", count), TimeoutNotificationCount)
}

func (c *cacheManager) InvalidateNotificationCount(ctx context.Context, userID string) {
	c.rdb.Del(ctx, notificationCountKey(userID))
}

func (c *cacheManager) GetJSON(ctx context.Context, key string, dest any) bool {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

func (c *cacheManager) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, ttl)
}

func (c *cacheManager) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
