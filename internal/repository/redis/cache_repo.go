package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// CatalogCache хранит снимки каталога в Redis в виде JSON
type CatalogCache struct {
	client redis.UniversalClient
}

// NewCatalogCache требует подключенный клиент: без Redis кеш просто не создается
func NewCatalogCache(client redis.UniversalClient) (*CatalogCache, error) {
	if client == nil {
		return nil, errors.New("catalog cache: redis client is nil")
	}
	return &CatalogCache{client: client}, nil
}

func (c *CatalogCache) Load(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return apperrors.ErrNotFound
	case err != nil:
		return fmt.Errorf("catalog cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// битая запись: считаем промахом, она перезапишется после чтения из хранилища
		return fmt.Errorf("%w: catalog cache entry %s is corrupt: %v", apperrors.ErrNotFound, key, err)
	}
	return nil
}

func (c *CatalogCache) Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("catalog cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
