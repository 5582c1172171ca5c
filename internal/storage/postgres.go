package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TechiHub-io/TechihubReact-sub000/pkg/database"
)

// PostgresStorage хранит ключи в таблице key/value/expires_at
type PostgresStorage struct {
	db *database.Postgres
	q  pgQueries
}

// pgQueries запросы к таблице хранилища. Имя таблицы экранируется один раз.
type pgQueries struct {
	create string
	get    string
	set    string
	del    string
	purge  string
	keys   string
}

// tableIdent экранирует имя таблицы, допускается схема через точку
func tableIdent(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

func newPGQueries(table string) pgQueries {
	t := tableIdent(table)
	return pgQueries{
		create: `CREATE TABLE IF NOT EXISTS ` + t + ` (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		expires_at TIMESTAMPTZ NULL
	)`,
		get: `SELECT value FROM ` + t + ` WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		set: `INSERT INTO ` + t + ` (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		del:   `DELETE FROM ` + t + ` WHERE key = ANY($1)`,
		purge: `DELETE FROM ` + t + ` WHERE expires_at IS NOT NULL AND expires_at <= now()`,
		keys:  `SELECT key FROM ` + t + ` ORDER BY key`,
	}
}

// NewPostgres создает хранилище и таблицу, если ее нет
func NewPostgres(ctx context.Context, db *database.Postgres, table string) (*PostgresStorage, error) {
	if table == "" {
		table = "client_storage"
	}
	s := &PostgresStorage{db: db, q: newPGQueries(table)}

	if _, err := db.Pool.Exec(ctx, s.q.create); err != nil {
		return nil, fmt.Errorf("ошибка создания таблицы хранилища: %w", err)
	}
	return s, nil
}

// Get возвращает значение по ключу
func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.Pool.QueryRow(ctx, s.q.get, key).Scan(&value)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения из PostgreSQL: %w", err)
	}
	return value, nil
}

// Set сохраняет значение
func (s *PostgresStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		at := time.Now().Add(ttl)
		expiresAt = &at
	}

	if _, err := s.db.Pool.Exec(ctx, s.q.set, key, value, expiresAt); err != nil {
		return fmt.Errorf("ошибка сохранения в PostgreSQL: %w", err)
	}
	return nil
}

// Delete удаляет ключи
func (s *PostgresStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.Pool.Exec(ctx, s.q.del, keys); err != nil {
		return fmt.Errorf("ошибка удаления из PostgreSQL: %w", err)
	}
	return nil
}

// Keys возвращает действующие ключи и удаляет истекшие строки
func (s *PostgresStorage) Keys(ctx context.Context) ([]string, error) {
	if _, err := s.db.Pool.Exec(ctx, s.q.purge); err != nil {
		return nil, fmt.Errorf("ошибка очистки хранилища: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, s.q.keys)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключей PostgreSQL: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ключей PostgreSQL: %w", err)
	}
	return keys, nil
}

// Close закрывает пул соединений
func (s *PostgresStorage) Close() error {
	s.db.Close()
	return nil
}
