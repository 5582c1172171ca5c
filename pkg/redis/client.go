// Package redis подключение к Redis для хранилища состояния клиента.
// Ключи клиента живут под общим префиксом, наружу отдаются без него.
package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options параметры подключения
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// MaxRetries повторы команды после сетевой ошибки, -1 отключает повторы
	MaxRetries int
	Prefix     string
}

// DefaultOptions локальный Redis с префиксом techhub:
func DefaultOptions() Options {
	return Options{Addr: "localhost:6379", PoolSize: 10, MaxRetries: 3, Prefix: "techhub:"}
}

// Client ключи с префиксом поверх go-redis
type Client struct {
	rdb    *redis.Client
	prefix string
}

// Open подключается и проверяет доступность сервера одним PING
func Open(ctx context.Context, opts Options) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MaxRetries:   opts.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s недоступен: %w", opts.Addr, err)
	}
	return &Client{rdb: rdb, prefix: opts.Prefix}, nil
}

// Key полное имя ключа в Redis
func (c *Client) Key(name string) string {
	return c.prefix + name
}

// Get читает значение. found false, если ключа нет или истек TTL.
func (c *Client) Get(ctx context.Context, name string) (value []byte, found bool, err error) {
	value, err = c.rdb.Get(ctx, c.Key(name)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set записывает значение, ttl 0 без срока
func (c *Client) Set(ctx context.Context, name string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.Key(name), value, ttl).Err()
}

// Del удаляет ключи одной командой
func (c *Client) Del(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = c.Key(n)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Names имена ключей под префиксом по алфавиту
func (c *Client) Names(ctx context.Context) ([]string, error) {
	var names []string
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), c.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Ping проверяет подключение
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close закрывает пул соединений
func (c *Client) Close() error {
	return c.rdb.Close()
}
