// Package cache keeps serialized book content in Redis so repeated opens of
// the same book skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/readnwin/reader/internal/entities"
)

const (
	// KeyPrefixBook is the prefix for cached book content keys
	KeyPrefixBook = "readnwin:book:"

	DefaultContentTTL = time.Hour
)

func BookKey(bookID string) string {
	return KeyPrefixBook + bookID
}

// ContentCache stores loaded books by id. A miss is reported as (nil, nil).
type ContentCache interface {
	GetBook(ctx context.Context, bookID string) (*entities.ModernBook, error)
	SetBook(ctx context.Context, book *entities.ModernBook) error
	InvalidateBook(ctx context.Context, bookID string) error
	Flush(ctx context.Context) error
}

type RedisContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContentCache(client *redis.Client, ttl time.Duration) *RedisContentCache {
	if ttl <= 0 {
		ttl = DefaultContentTTL
	}
	return &RedisContentCache{client: client, ttl: ttl}
}

func (c *RedisContentCache) GetBook(ctx context.Context, bookID string) (*entities.ModernBook, error) {
	data, err := c.client.Get(ctx, BookKey(bookID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached book: %w", err)
	}

	var book entities.ModernBook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached book: %w", err)
	}
	return &book, nil
}

func (c *RedisContentCache) SetBook(ctx context.Context, book *entities.ModernBook) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}
	if err := c.client.Set(ctx, BookKey(book.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache book: %w", err)
	}
	return nil
}

func (c *RedisContentCache) InvalidateBook(ctx context.Context, bookID string) error {
	if err := c.client.Del(ctx, BookKey(bookID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached book: %w", err)
	}
	return nil
}

// Flush removes every cached book.
func (c *RedisContentCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefixBook+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

// NoopContentCache is used when Redis is not configured. Every lookup misses.
type NoopContentCache struct{}

func (NoopContentCache) GetBook(context.Context, string) (*entities.ModernBook, error) {
	return nil, nil
}
func (NoopContentCache) SetBook(context.Context, *entities.ModernBook) error { return nil }
func (NoopContentCache) InvalidateBook(context.Context, string) error        { return nil }
func (NoopContentCache) Flush(context.Context) error                         { return nil }
