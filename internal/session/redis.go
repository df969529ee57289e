package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps sessions in Redis so that several API processes can share them.
// Keys are written without TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func NewRedisStore(rdb *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: keyPrefix}
}

func (s *RedisStore) key(token Token) string {
	return s.prefix + string(token)
}

func (s *RedisStore) Put(ctx context.Context, token Token, hospitalID uint) error {
	ok, err := s.rdb.SetNX(ctx, s.key(token), strconv.FormatUint(uint64(hospitalID), 10), 0).Result()
	if err != nil {
		return oops.Code("SESSION_STORE_FAILED").With("op", "put").Wrap(err)
	}
	if !ok {
		return ErrTokenExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token Token) (uint, error) {
	raw, err := s.rdb.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenNotFound
		}
		return 0, oops.Code("SESSION_STORE_FAILED").With("op", "get").Wrap(err)
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, oops.Code("SESSION_STORE_CORRUPT").With("value", raw).Wrap(err)
	}
	return uint(id), nil
}

// Len counts the session keys under the configured prefix.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n := 0
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, oops.Code("SESSION_STORE_FAILED").With("op", "len").Wrap(err)
	}
	return n, nil
}

// Ping checks redis connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
