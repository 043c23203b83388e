package repository

import (
	"context"
	"time"
)

// CacheRepository — JSON-кеш с TTL для снимков каталога
type CacheRepository interface {
	// Load читает значение в dest; если ключа нет, возвращает errors.ErrNotFound
	Load(ctx context.Context, key string, dest interface{}) error
	Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}
