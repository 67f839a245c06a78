// Package cache implementa el caché de lecturas sobre Redis. Es un caché
// best-effort: cualquier error de Redis se registra y la petición sigue
// contra Postgres.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gyadistribucion/gya-api/pkg/logger"
)

// NewRedis crea y valida la conexión del cliente go-redis.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// Cache envuelve el cliente con el TTL configurado y tolerancia a fallos.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func New(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Get devuelve el valor cacheado y true, o ("", false) si no hay hit.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache get falló")
		}
		return "", false
	}
	return val, true
}

// Set guarda el valor con el TTL configurado.
func (c *Cache) Set(ctx context.Context, key, val string) {
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set falló")
	}
}

// Invalidar borra todas las claves bajo los prefijos dados (SCAN + DEL,
// nunca KEYS: Redis es compartido con otros servicios).
func (c *Cache) Invalidar(ctx context.Context, prefijos ...string) {
	for _, prefijo := range prefijos {
		iter := c.rdb.Scan(ctx, 0, prefijo+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				c.log.Warn().Err(err).Str("key", iter.Val()).Msg("cache del falló")
			}
		}
		if err := iter.Err(); err != nil {
			c.log.Warn().Err(err).Str("prefijo", prefijo).Msg("cache scan falló")
		}
	}
}
