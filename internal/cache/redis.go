package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/amigo-matching/internal/config"
)

// LikesReceivedTTL bounds how long a counter and its generation live.
const LikesReceivedTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikesReceived generates the Redis key holding how many pending likes a user has.
func (c *RedisCache) KeyForLikesReceived(userID int64) string {
	return fmt.Sprintf("likes:received:%d", userID)
}

// KeyForLikesReceivedGen is bumped on every invalidation of the user's counter.
func (c *RedisCache) KeyForLikesReceivedGen(userID int64) string {
	return c.KeyForLikesReceived(userID) + ":gen"
}

// GetLikesReceived returns the cached counter together with the user's current
// generation. ok is false on a cache miss or an unparsable value; gen must be
// handed back to SetLikesReceived when the counter is recomputed.
func (c *RedisCache) GetLikesReceived(ctx context.Context, userID int64) (count, gen int64, ok bool, err error) {
	vals, err := c.Client.MGet(ctx, c.KeyForLikesReceived(userID), c.KeyForLikesReceivedGen(userID)).Result()
	if err != nil {
		return 0, 0, false, err
	}
	gen = parseGen(vals[1])

	raw, isStr := vals[0].(string)
	if !isStr {
		return 0, gen, false, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, gen, false, nil
	}
	return n, gen, true, nil
}

var errStaleCounter = errors.New("likes counter invalidated during recompute")

// SetLikesReceived stores a recomputed counter unless the user was invalidated
// since gen was read. stored reports whether the write happened.
// The TTL is set only here; reads never extend it.
func (c *RedisCache) SetLikesReceived(ctx context.Context, userID, count, gen int64) (stored bool, err error) {
	key, genKey := c.KeyForLikesReceived(userID), c.KeyForLikesReceivedGen(userID)

	err = c.Client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if parseGen(cur) != gen {
			return errStaleCounter
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, count, LikesReceivedTTL)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleCounter), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

// InvalidateLikesReceived drops the counters of the given users and bumps their
// generations, so recomputes that started earlier are not written back.
func (c *RedisCache) InvalidateLikesReceived(ctx context.Context, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range userIDs {
			genKey := c.KeyForLikesReceivedGen(id)
			p.Del(ctx, c.KeyForLikesReceived(id))
			p.Incr(ctx, genKey)
			p.Expire(ctx, genKey, LikesReceivedTTL)
		}
		return nil
	})
	return err
}

// parseGen reads a generation value; a missing key is generation 0.
func parseGen(v any) int64 {
	s, _ := v.(string)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
