// Package cache реализует кэш консоли поверх Redis: JSON-значения с TTL,
// ключи, привязанные к рабочему пространству, и текущее рабочее
// пространство сессии.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/cloud-console/internal/config"
)

const scanBatch = 100

// Cache хранит клиент Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// WorkspaceKey строит ключ, привязанный к рабочему пространству.
// Все такие ключи удаляются при смене рабочего пространства в сессии.
func WorkspaceKey(workspaceID string, parts ...string) string {
	return "workspace:" + workspaceID + ":" + strings.Join(parts, ":")
}

func workspacePrefix(workspaceID string) string {
	return "workspace:" + workspaceID + ":"
}

// SessionWorkspaceKey ключ текущего рабочего пространства сессии.
func SessionWorkspaceKey(sessionID string) string {
	return "session:" + sessionID + ":workspace"
}

// Get читает значение по ключу в result. Возвращает false, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в JSON с временем жизни.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate удаляет ключ.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}

// InvalidateWorkspace удаляет все ключи рабочего пространства и возвращает их число.
// Ключи собираются полным проходом SCAN и удаляются только после него.
func (c *Cache) InvalidateWorkspace(ctx context.Context, workspaceID string) (int, error) {
	const op = "cache.InvalidateWorkspace"

	var keys []string
	iter := c.Db.Scan(ctx, 0, workspacePrefix(workspaceID)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	removed := 0
	for len(keys) > 0 {
		n := min(len(keys), scanBatch)
		deleted, err := c.Db.Del(ctx, keys[:n]...).Result()
		if err != nil {
			return removed, fmt.Errorf("%s: %w", op, err)
		}
		removed += int(deleted)
		keys = keys[n:]
	}
	return removed, nil
}

// SwapSessionWorkspace атомарно записывает текущее рабочее пространство сессии
// и возвращает предыдущее (пустая строка, если его не было).
func (c *Cache) SwapSessionWorkspace(ctx context.Context, sessionID, workspaceID string, ttl time.Duration) (string, error) {
	const op = "cache.SwapSessionWorkspace"
	key := SessionWorkspaceKey(sessionID)

	var prev *redis.StringCmd
	_, err := c.Db.TxPipelined(ctx, func(p redis.Pipeliner) error {
		prev = p.GetSet(ctx, key, workspaceID)
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	val, err := prev.Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// Close закрывает клиент.
func (c *Cache) Close() error {
	return c.Db.Close()
}
