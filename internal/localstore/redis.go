package localstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/student"
)

const redisTimeout = 3 * time.Second

// RedisStore keeps the list as a JSON string under a single Redis key.
type RedisStore struct {
	rdb *redis.Client
	key string
	log logrus.FieldLogger
}

// NewRedisStore connects lazily to addr. An empty key uses DefaultKey.
func NewRedisStore(addr, key string, log logrus.FieldLogger) (*RedisStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis store requires an address")
	}
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), key, log), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(rdb *redis.Client, key string, log logrus.FieldLogger) *RedisStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisStore{rdb: rdb, key: key, log: log.WithField("store", "redis")}
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

// Load implements Store.
func (r *RedisStore) Load() []student.Student {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).Warn("read students key; starting empty")
		}
		return nil
	}
	return decode(data, r.log)
}

// Save implements Store.
func (r *RedisStore) Save(list []student.Student) error {
	data, err := encode(list)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write students key: %w", err)
	}
	return nil
}

func (r *RedisStore) markKey() string {
	return r.key + ":high_id"
}

// LoadHighID implements IDMarker. A missing or unreadable mark reads as 0.
func (r *RedisStore) LoadHighID() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	id, err := r.rdb.Get(ctx, r.markKey()).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).Warn("read id mark")
		}
		return 0
	}
	return id
}

// SaveHighID implements IDMarker.
func (r *RedisStore) SaveHighID(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.rdb.Set(ctx, r.markKey(), strconv.FormatInt(id, 10), 0).Err(); err != nil {
		return fmt.Errorf("write id mark: %w", err)
	}
	return nil
}
