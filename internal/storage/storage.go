package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/pkg/config"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/database"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/redis"
)

// ErrNotFound возвращается, если ключ отсутствует или истек
var ErrNotFound = stderrors.New("ключ не найден")

// Storage постоянное хранилище клиента: снимок состояния и cookie.
// ttl == 0 означает хранение без срока.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open создает хранилище по конфигурации
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Storage, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return NewMemory(), nil

	case "", "file":
		path, err := cfg.StoragePath()
		if err != nil {
			return nil, err
		}
		return NewFile(path)

	case "redis":
		ro := redis.DefaultOptions()
		ro.Addr = cfg.Storage.Redis.Addr
		ro.Password = cfg.Storage.Redis.Password
		ro.DB = cfg.Storage.Redis.DB
		ro.Prefix = cfg.Storage.Redis.Prefix
		if cfg.Storage.Redis.PoolSize > 0 {
			ro.PoolSize = cfg.Storage.Redis.PoolSize
		}
		ro.MaxRetries = cfg.Storage.Redis.MaxRetries

		client, err := redis.Open(ctx, ro)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
		}
		log.Debug("хранилище Redis подключено", logger.String("addr", ro.Addr))
		return NewRedis(client), nil

	case "postgres":
		pc := database.NewConfig(cfg.Storage.Postgres.DSN)
		if cfg.Storage.Postgres.MaxConns > 0 {
			pc.MaxConns = cfg.Storage.Postgres.MaxConns
		}
		pc.MaxRetries = cfg.Storage.Postgres.MaxRetries
		if d, err := time.ParseDuration(cfg.Storage.Postgres.RetryInterval); err == nil {
			pc.RetryInterval = d
		}

		db, err := database.Connect(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
		}
		st, err := NewPostgres(ctx, db, cfg.Storage.Postgres.Table)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Debug("хранилище PostgreSQL подключено", logger.String("table", cfg.Storage.Postgres.Table))
		return st, nil

	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", cfg.Storage.Backend)
	}
}

type entry struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (e entry) expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

func newEntry(value []byte, ttl time.Duration, now time.Time) entry {
	e := entry{Value: string(value)}
	if ttl > 0 {
		at := now.Add(ttl)
		e.ExpiresAt = &at
	}
	return e
}
