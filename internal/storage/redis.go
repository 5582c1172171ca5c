package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/pkg/redis"
)

// RedisStorage хранит ключи в Redis с префиксом и нативным TTL
type RedisStorage struct {
	client *redis.Client
}

// NewRedis создает хранилище поверх подключения к Redis
func NewRedis(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Get возвращает значение по ключу
func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, found, err := r.client.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из Redis: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return data, nil
}

// Set сохраняет значение
func (r *RedisStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl); err != nil {
		return fmt.Errorf("ошибка сохранения в Redis: %w", err)
	}
	return nil
}

// Delete удаляет ключи
func (r *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if err := r.client.Del(ctx, keys...); err != nil {
		return fmt.Errorf("ошибка удаления из Redis: %w", err)
	}
	return nil
}

// Keys возвращает ключи с префиксом хранилища без самого префикса
func (r *RedisStorage) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.client.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключей Redis: %w", err)
	}
	return keys, nil
}

// Close закрывает подключение
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
