package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config представляет конфигурацию клиента. Содержит вложенные структуры для API, хранилища, сессии и вывода.
type Config struct {
	API         APIConfig     `json:"api" yaml:"api"`
	Storage     StorageConfig `json:"storage" yaml:"storage"`
	Session     SessionConfig `json:"session" yaml:"session"`
	Logger      LoggerConfig  `json:"logger" yaml:"logger"`
	Environment string        `json:"environment" yaml:"environment"`
	Search      SearchConfig  `json:"search" yaml:"search"`
	Retry       RetryConfig   `json:"retry" yaml:"retry"`
	Output      OutputConfig  `json:"output" yaml:"output"`
}

// APIConfig представляет настройки REST API. Базовый адрес включает префикс версии, например /api/v1.
type APIConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	Timeout   string `json:"timeout" yaml:"timeout"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StorageConfig представляет настройки постоянного хранилища состояния
type StorageConfig struct {
	// Backend: file, redis, postgres, memory
	Backend  string         `json:"backend" yaml:"backend"`
	Path     string         `json:"path" yaml:"path"`
	Key      string         `json:"key" yaml:"key"`
	Redis    RedisConfig    `json:"redis" yaml:"redis"`
	Postgres PostgresConfig `json:"postgres" yaml:"postgres"`
}

// RedisConfig представляет конфигурацию Redis
type RedisConfig struct {
	Addr       string `json:"addr" yaml:"addr"`
	Password   string `json:"password" yaml:"password"`
	DB         int    `json:"db" yaml:"db"`
	Prefix     string `json:"prefix" yaml:"prefix"`
	PoolSize   int    `json:"pool_size" yaml:"pool_size"`
	MaxRetries int    `json:"max_retries" yaml:"max_retries"`
}

// PostgresConfig представляет конфигурацию PostgreSQL хранилища
type PostgresConfig struct {
	DSN           string `json:"dsn" yaml:"dsn"`
	Table         string `json:"table" yaml:"table"`
	MaxConns      int    `json:"max_conns" yaml:"max_conns"`
	MaxRetries    int    `json:"max_retries" yaml:"max_retries"`
	RetryInterval string `json:"retry_interval" yaml:"retry_interval"`
}

// SessionConfig представляет настройки cookie сессии
type SessionConfig struct {
	CookieDomain string `json:"cookie_domain" yaml:"cookie_domain"`
	AuthTTL      string `json:"auth_ttl" yaml:"auth_ttl"`
	RefreshTTL   string `json:"refresh_ttl" yaml:"refresh_ttl"`
	FlagsTTL     string `json:"flags_ttl" yaml:"flags_ttl"`
}

// LoggerConfig представляет конфигурацию логгера
type LoggerConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// SearchConfig представляет настройки поиска вакансий
type SearchConfig struct {
	PageSize int `json:"page_size" yaml:"page_size"`
}

// RetryConfig представляет настройки ручного повтора запросов
type RetryConfig struct {
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// OutputConfig представляет настройки вывода CLI
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
	Colors bool   `json:"colors" yaml:"colors"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000/api/v1",
			Timeout:   "30s",
			UserAgent: "TechHub-CLI/1.0",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "",
			Key:     "techhub-storage",
			Redis: RedisConfig{
				Addr:       "localhost:6379",
				DB:         0,
				Prefix:     "techhub:",
				PoolSize:   10,
				MaxRetries: 3,
			},
			Postgres: PostgresConfig{
				DSN:           "",
				Table:         "client_storage",
				MaxConns:      5,
				MaxRetries:    3,
				RetryInterval: "1s",
			},
		},
		Session: SessionConfig{
			CookieDomain: "localhost",
			AuthTTL:      "24h",
			RefreshTTL:   "168h",
			FlagsTTL:     "168h",
		},
		Logger: LoggerConfig{
			Level:  "warn",
			Format: "console",
		},
		Environment: "dev",
		Search: SearchConfig{
			PageSize: 10,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// LoadConfig загружает конфигурацию в следующем порядке приоритета:
// 1. Загрузка значений по умолчанию
// 2. Загрузка из файла (если указан)
// 3. Переопределение значениями из переменных окружения
// 4. Валидация конфигурации
func LoadConfig(configFile string) (*Config, error) {
	config := Default()

	if configFile != "" {
		if err := loadConfigFromFile(config, configFile); err != nil {
			return nil, fmt.Errorf("ошибка загрузки конфигурации из файла: %w", err)
		}
	}

	if err := loadConfigFromEnv(config); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации из окружения: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return config, nil
}

func loadConfigFromFile(config *Config, filename string) error {
	filename = os.ExpandEnv(filename)

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("файл конфигурации не существует: %s", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	// Сначала YAML, затем JSON
	if err := yaml.Unmarshal(content, config); err != nil {
		if jsonErr := json.Unmarshal(content, config); jsonErr != nil {
			return fmt.Errorf("не удалось разобрать файл как YAML или JSON: %w", err)
		}
	}

	return nil
}

func loadConfigFromEnv(config *Config) error {
	if v := os.Getenv("TECHIHUB_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("TECHIHUB_API_TIMEOUT"); v != "" {
		config.API.Timeout = v
	}

	if v := os.Getenv("TECHIHUB_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}
	if v := os.Getenv("TECHIHUB_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("TECHIHUB_REDIS_ADDR"); v != "" {
		config.Storage.Redis.Addr = v
	}
	if v := os.Getenv("TECHIHUB_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("некорректный TECHIHUB_REDIS_DB: %s", v)
		}
		config.Storage.Redis.DB = db
	}
	if v := os.Getenv("TECHIHUB_POSTGRES_DSN"); v != "" {
		config.Storage.Postgres.DSN = v
	}

	if v := os.Getenv("TECHIHUB_COOKIE_DOMAIN"); v != "" {
		config.Session.CookieDomain = v
	}

	if v := os.Getenv("TECHIHUB_LOG_LEVEL"); v != "" {
		config.Logger.Level = v
	}
	if v := os.Getenv("TECHIHUB_ENV"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("TECHIHUB_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("некорректный TECHIHUB_PAGE_SIZE: %s", v)
		}
		config.Search.PageSize = size
	}

	return nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	switch c.Environment {
	case "dev", "staging", "prod":
	default:
		return fmt.Errorf("invalid environment: %s, must be one of: dev, staging, prod", c.Environment)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got: %q", c.API.BaseURL)
	}
	if _, err := c.APITimeout(); err != nil {
		return fmt.Errorf("api.timeout: %w", err)
	}

	switch c.Storage.Backend {
	case "file", "memory":
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for redis backend")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for postgres backend")
		}
	default:
		return fmt.Errorf("invalid storage.backend: %s, must be one of: file, redis, postgres, memory", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}

	for name, value := range map[string]string{
		"session.auth_ttl":    c.Session.AuthTTL,
		"session.refresh_ttl": c.Session.RefreshTTL,
		"session.flags_ttl":   c.Session.FlagsTTL,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Search.PageSize <= 0 || c.Search.PageSize > 100 {
		return fmt.Errorf("search.page_size must be between 1 and 100")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.Logger.Level == "" {
		return fmt.Errorf("logger.level is required")
	}

	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output.format: %s, must be one of: table, json, yaml", c.Output.Format)
	}

	return nil
}

// APITimeout возвращает таймаут запросов к API
func (c *Config) APITimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.Timeout)
}

// SessionTTLs возвращает сроки жизни cookie: токен доступа, refresh токен, флаги
func (c *Config) SessionTTLs() (auth, refresh, flags time.Duration) {
	auth, _ = time.ParseDuration(c.Session.AuthTTL)
	refresh, _ = time.ParseDuration(c.Session.RefreshTTL)
	flags, _ = time.ParseDuration(c.Session.FlagsTTL)
	return auth, refresh, flags
}

// StoragePath возвращает путь файлового хранилища, по умолчанию ~/.techhub/storage.json
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return os.ExpandEnv(c.Storage.Path), nil
	}
	home := os.Getenv("TECHIHUB_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ошибка получения домашней директории: %w", err)
		}
	}
	return filepath.Join(home, ".techhub", "storage.json"), nil
}

// Save сохраняет конфигурацию в файл в формате YAML.
// Автоматически создает директорию, если она не существует.
func (c *Config) Save(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	content, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, content, 0644)
}
