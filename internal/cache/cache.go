package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/redis/go-redis/v9"
)

// LRU 固定容量的进程内图片缓存，多个请求并发访问
type LRU struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = 512
	}
	return &LRU{cache: lru.New(capacity)}
}

func (c *LRU) Get(link string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(link)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

func (c *LRU) Add(link, image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(link, image)
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

const (
	redisKeyPrefix  = "newscard:ogimage:"
	redisOpTimeout  = 500 * time.Millisecond
	defaultRedisTTL = 6 * time.Hour
)

// Redis 多实例共享的图片缓存，依靠 TTL 自然过期控制规模。
// Redis 不可用时按未命中处理，不影响请求。
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}
	return &Redis{client: rdb, ttl: ttl}
}

func (r *Redis) Get(link string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	v, err := r.client.Get(ctx, redisKeyPrefix+link).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: redis get: %v", err)
		}
		return "", false
	}
	return v, true
}

func (r *Redis) Add(link, image string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, redisKeyPrefix+link, image, r.ttl).Err(); err != nil {
		log.Printf("cache: redis set: %v", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
