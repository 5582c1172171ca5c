package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStorage хранит все ключи одним JSON документом в файле с правами 0600
type FileStorage struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFile создает файловое хранилище и директорию для него
func NewFile(path string) (*FileStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}
	return &FileStorage{path: path, now: time.Now}, nil
}

// Path возвращает путь к файлу
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) load() (map[string]entry, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]entry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения хранилища: %w", err)
	}

	entries := make(map[string]entry)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ошибка десериализации хранилища: %w", err)
	}
	return entries, nil
}

func (f *FileStorage) save(entries map[string]entry) error {
	now := f.now()
	for k, e := range entries {
		if e.expired(now) {
			delete(entries, k)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации хранилища: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения хранилища: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("ошибка сохранения хранилища: %w", err)
	}
	return nil
}

// Get возвращает значение по ключу
func (f *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	e, ok := entries[key]
	if !ok || e.expired(f.now()) {
		return nil, ErrNotFound
	}
	return []byte(e.Value), nil
}

// Set сохраняет значение
func (f *FileStorage) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	entries[key] = newEntry(value, ttl, f.now())
	return f.save(entries)
}

// Delete удаляет ключи
func (f *FileStorage) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(entries, k)
	}
	return f.save(entries)
}

// Keys возвращает действующие ключи по возрастанию
func (f *FileStorage) Keys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return nil, err
	}

	now := f.now()
	keys := make([]string, 0, len(entries))
	for k, e := range entries {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close ничего не делает
func (f *FileStorage) Close() error {
	return nil
}
