package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechiHub-io/TechihubReact-sub000/pkg/config"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/database"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/redis"
)

// checkContract проверяет общее поведение всех реализаций хранилища
func checkContract(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "techhub-storage", []byte(`{"state":{}}`), 0))
	require.NoError(t, s.Set(ctx, "auth_token|/|", []byte("tok"), time.Hour))
	require.NoError(t, s.Set(ctx, "theme", []byte("dark"), 0))

	got, err := s.Get(ctx, "techhub-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"state":{}}`, string(got))

	require.NoError(t, s.Set(ctx, "theme", []byte("light"), 0))
	got, err = s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth_token|/|", "techhub-storage", "theme"}, keys)

	require.NoError(t, s.Delete(ctx, "techhub-storage", "auth_token|/|", "never-set"))
	require.NoError(t, s.Delete(ctx))

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"theme"}, keys)

	_, err = s.Get(ctx, "auth_token|/|")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestMemoryStorage проверяет хранилище в памяти
func TestMemoryStorage(t *testing.T) {
	checkContract(t, NewMemory())
}

// TestMemoryStorage_TTL проверяет истечение срока жизни ключа
func TestMemoryStorage_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_token", []byte("tok"), 24*time.Hour))
	require.NoError(t, s.Set(ctx, "forever", []byte("x"), 0))

	now = now.Add(23 * time.Hour)
	_, err := s.Get(ctx, "auth_token")
	assert.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = s.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys)
}

// TestFileStorage проверяет файловое хранилище
func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".techhub", "storage.json")
	s, err := NewFile(path)
	require.NoError(t, err)

	checkContract(t, s)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// TestFileStorage_Reopen проверяет, что данные переживают перезапуск
func TestFileStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	s, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "techhub-storage", []byte(`{"version":0}`), 0))

	reopened, err := NewFile(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "techhub-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"version":0}`, string(got))
}

// TestFileStorage_Expired проверяет, что истекшие записи не возвращаются и вычищаются при записи
func TestFileStorage_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user_role", []byte("employer"), time.Hour))
	now = now.Add(2 * time.Hour)

	_, err = s.Get(ctx, "user_role")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "other", []byte("1"), 0))
	entries, err := s.load()
	require.NoError(t, err)
	assert.NotContains(t, entries, "user_role")
}

// TestFileStorage_Corrupted проверяет ошибку разбора поврежденного файла
func TestFileStorage_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := NewFile(path)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func newRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	opts := redis.DefaultOptions()
	opts.Addr = mr.Addr()
	opts.Prefix = "techhub:"
	client, err := redis.Open(context.Background(), opts)
	require.NoError(t, err)

	s := NewRedis(client)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

// TestRedisStorage проверяет хранилище в Redis
func TestRedisStorage(t *testing.T) {
	s, mr := newRedisStorage(t)
	checkContract(t, s)

	assert.True(t, mr.Exists("techhub:theme"))
	assert.False(t, mr.Exists("theme"))
}

// TestRedisStorage_TTL проверяет нативный TTL Redis
func TestRedisStorage_TTL(t *testing.T) {
	s, mr := newRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_token", []byte("tok"), time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("techhub:auth_token"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestPostgresStorage проверяет хранилище в PostgreSQL, если задана тестовая база
func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("TECHIHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TECHIHUB_TEST_POSTGRES_DSN не задан")
	}
	ctx := context.Background()

	db, err := database.Connect(ctx, database.NewConfig(dsn))
	require.NoError(t, err)

	s, err := NewPostgres(ctx, db, "client_storage_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), "DROP TABLE IF EXISTS client_storage_test")
		_ = s.Close()
	})

	checkContract(t, s)
}

// TestPGQueries_QuotesTable проверяет экранирование имени таблицы в запросах
func TestPGQueries_QuotesTable(t *testing.T) {
	assert.Equal(t, `"client_storage"`, tableIdent("client_storage"))
	assert.Equal(t, `"public"."client_storage"`, tableIdent("public.client_storage"))

	q := newPGQueries(`kv; DROP TABLE users; --`)
	quoted := `"kv; DROP TABLE users; --"`
	for _, query := range []string{q.create, q.get, q.set, q.del, q.purge, q.keys} {
		assert.Contains(t, query, quoted)
	}
	assert.Equal(t, `SELECT key FROM `+quoted+` ORDER BY key`, q.keys)

	q = newPGQueries(`a"b`)
	assert.Contains(t, q.get, `FROM "a""b" WHERE`)
}

// TestOpen проверяет выбор хранилища по конфигурации
func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Backend = "memory"
		s, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Path = filepath.Join(t.TempDir(), "s.json")
		s, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		fs, ok := s.(*FileStorage)
		require.True(t, ok)
		assert.Equal(t, cfg.Storage.Path, fs.Path())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Storage.Backend = "redis"
		cfg.Storage.Redis.Addr = mr.Addr()
		s, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &RedisStorage{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Backend = "etcd"
		_, err := Open(ctx, cfg, log)
		assert.Error(t, err)
	})
}
