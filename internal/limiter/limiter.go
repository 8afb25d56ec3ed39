// Package limiter throttles password guessing on unlock.
package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Redis is a fixed-window counter shared by every replica.
type Redis struct {
	C      *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewRedis(c *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{C: c, limit: limit, window: window, prefix: "sendy:rl:"}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	// the window and the counter are created in one transaction so a key
	// never exists without an expiry
	_, err := r.C.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SetNX(ctx, k, 0, r.window)
		incr = p.Incr(ctx, k)
		ttl = p.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, err
	}
	if ttl.Val() < 0 {
		// counter written by an older build without an expiry
		if err := r.C.Expire(ctx, k, r.window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= int64(r.limit), nil
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }

// Local is a per-process token bucket used when no Redis is configured.
type Local struct {
	mu      sync.Mutex
	buckets map[string]*entry
	every   rate.Limit
	burst   int
	idle    time.Duration
}

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLocal allows limit events per window with a full burst up front.
func NewLocal(limit int, window time.Duration) *Local {
	if limit <= 0 {
		limit = 1
	}
	return &Local{
		buckets: make(map[string]*entry),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    2 * window,
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) > 10000 {
			l.evict(now)
		}
		e = &entry{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1), nil
}

func (l *Local) evict(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.seen) > l.idle {
			delete(l.buckets, k)
		}
	}
}

// Noop never limits; used when the configured rate is zero.
type Noop struct{}

func (Noop) Allow(context.Context, string) (bool, error) { return true, nil }
