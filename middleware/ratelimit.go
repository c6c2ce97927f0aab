package middleware

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter đếm số lần thử theo key trong một cửa sổ thời gian cố định.
type Limiter interface {
	// Allow tăng bộ đếm và trả về false cùng thời gian chờ khi đã vượt giới hạn.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RedisLimiter dùng INCR + EXPIRE nên nhiều instance dùng chung một bộ đếm.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit expire %s: %w", redisKey, err)
		}
	}

	if count <= int64(l.max) {
		return true, 0, nil
	}
	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// ConnectRedis tạo client và ping thử trong 5 giây.
func ConnectRedis(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[redis] connected %s", addr)
	return client, nil
}

// MemoryLimiter dùng khi không cấu hình Redis, chỉ đúng với một instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*memoryBucket
}

type memoryBucket struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*memoryBucket),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &memoryBucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	if b.count <= l.max {
		return true, 0, nil
	}
	return false, b.resetAt.Sub(now), nil
}

// Prune xoá các bucket đã hết cửa sổ, trả về số bucket bị xoá.
func (l *MemoryLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// RateLimit chặn theo IP client; lỗi của store thì cho qua để không khoá admin.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			log.Printf("[ratelimit] %v", err)
			c.Next()
			return
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Bạn thử quá nhiều lần, vui lòng thử lại sau",
				"code":  "TOO_MANY_REQUESTS",
			})
			return
		}
		c.Next()
	}
}
