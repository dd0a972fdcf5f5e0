package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss возвращается при отсутствии ключа в кэше
var ErrMiss = errors.New("cache: miss")

// Cache - узкий интерфейс кэша для read-mostly данных
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}
