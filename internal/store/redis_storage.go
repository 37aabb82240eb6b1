package store

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"youguo-backend/internal/platform/redis"
)

// databaseKey is the single Redis key holding the serialized aggregate.
const databaseKey = "youguo:database"

type redisStorage struct {
	client *redis.Client
}

// NewRedisStorage returns a Storage backed by one Redis key. Every save is a
// whole-document SET with no TTL.
func NewRedisStorage(client *redis.Client) Storage {
	return &redisStorage{client: client}
}

func (s *redisStorage) Load(ctx context.Context) ([]byte, error) {
	blob, err := s.client.Get(ctx, databaseKey).Bytes()
	if err == goredis.Nil {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *redisStorage) Save(ctx context.Context, blob []byte) error {
	return s.client.Set(ctx, databaseKey, blob, 0).Err()
}

func (s *redisStorage) Reset(ctx context.Context) error {
	return s.client.Del(ctx, databaseKey).Err()
}
