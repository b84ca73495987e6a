package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of redis.Cmdable the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// setIfNotOlderScript writes ARGV[1] unless the cached document carries a version above ARGV[2].
// Returns 1 when written, 0 when skipped.
const setIfNotOlderScript = `
local current = redis.call("GET", KEYS[1])
if current then
  local ok, doc = pcall(cjson.decode, current)
  if ok and type(doc) == "table" then
    local cached = tonumber(doc["version"])
    if cached and cached > tonumber(ARGV[2]) then
      return 0
    end
  end
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`

// SettingsCache stores merchant settings as JSON under "<prefix>:<merchant_id>".
type SettingsCache struct {
	rdb    redisClient
	ttl    time.Duration
	prefix string
}

func NewSettingsCache(rdb redisClient, ttl time.Duration, prefix string) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "delivery:settings"
	}
	return &SettingsCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *SettingsCache) key(merchantID string) string {
	return c.prefix + ":" + merchantID
}

func (c *SettingsCache) Get(ctx context.Context, merchantID string) (model.MerchantSettings, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(merchantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.MerchantSettings{}, false, nil
	}
	if err != nil {
		return model.MerchantSettings{}, false, err
	}
	var s model.MerchantSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.MerchantSettings{}, false, fmt.Errorf("decode cached settings: %w", err)
	}
	return s, true, nil
}

// Set caches s unless a newer version is already cached, so a slow reader holding settings
// loaded before a replacement cannot overwrite the replacement.
func (c *SettingsCache) Set(ctx context.Context, s model.MerchantSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Eval(ctx, setIfNotOlderScript, []string{c.key(s.MerchantID)},
		string(raw), s.Version, c.ttl.Milliseconds()).Err()
}

func (c *SettingsCache) Invalidate(ctx context.Context, merchantID string) error {
	return c.rdb.Del(ctx, c.key(merchantID)).Err()
}
