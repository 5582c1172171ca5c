package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage хранилище в памяти процесса
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory создает хранилище в памяти
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock подменяет часы для проверки сроков жизни
func (m *MemoryStorage) WithClock(now func() time.Time) *MemoryStorage {
	m.now = now
	return m
}

// Get возвращает значение по ключу
func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || e.expired(m.now()) {
		return nil, ErrNotFound
	}
	return []byte(e.Value), nil
}

// Set сохраняет значение
func (m *MemoryStorage) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = newEntry(value, ttl, m.now())
	return nil
}

// Delete удаляет ключи
func (m *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Keys возвращает действующие ключи по возрастанию
func (m *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close ничего не делает
func (m *MemoryStorage) Close() error {
	return nil
}
